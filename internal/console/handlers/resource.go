package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Resource is the GetAll/Add/Update/Delete accessor of one API resource
type Resource[T any] struct {
	client  *HTTPClient
	path    string
	timeout time.Duration
}

// ResourceOption configures a Resource
type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	timeout time.Duration
}

// WithTimeout bounds every write of the resource to d
func WithTimeout(d time.Duration) ResourceOption {
	return func(o *resourceOptions) {
		o.timeout = d
	}
}

// NewResource creates an accessor for the resource under path
func NewResource[T any](client *HTTPClient, path string, opts ...ResourceOption) *Resource[T] {
	var o resourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[T]{
		client:  client,
		path:    path,
		timeout: o.timeout,
	}
}

// GetAll fetches the whole collection
func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	r.client.log.Info("GetAll " + r.path + " called!")

	data, err := r.client.call(ctx, http.MethodGet, r.client.endpoint(r.path, "GetAll"), nil)
	if err != nil {
		return nil, err
	}

	items := []T{}
	switch data.(type) {
	case nil:
		return items, nil
	case []interface{}:
	default:
		return nil, newTransportError("GetAll "+r.path, errors.New("response carries no list"))
	}

	if err := decodeInto(data, &items); err != nil {
		return nil, newTransportError("GetAll "+r.path, errors.Wrap(err, "decode list"))
	}
	return items, nil
}

// Add creates an entity
func (r *Resource[T]) Add(ctx context.Context, item T) error {
	r.client.log.Info("Add " + r.path + " called!")
	return r.write(ctx, http.MethodPost, r.client.endpoint(r.path, "Add"), item)
}

// Update replaces an entity, the payload carries its id
func (r *Resource[T]) Update(ctx context.Context, item T) error {
	r.client.log.Info("Update " + r.path + " called!")
	return r.write(ctx, http.MethodPut, r.client.endpoint(r.path, "Update"), item)
}

// Delete removes the entity with id
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	r.client.log.Info("Delete " + r.path + " called!")
	url := r.client.endpoint(r.path, "Delete") + "?id=" + strconv.Itoa(id)
	return r.write(ctx, http.MethodDelete, url, nil)
}

func (r *Resource[T]) write(ctx context.Context, method, url string, payload interface{}) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	_, err := r.client.call(ctx, method, url, payload)
	return err
}
