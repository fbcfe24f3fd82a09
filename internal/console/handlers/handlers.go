package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/package/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Resource base paths of the lab API
const (
	ClientPath   = "Client"
	LabTestPath  = "MedicalLabs"
	CategoryPath = "Category"
	UnionPath    = "Union"
	AdPath       = "Responser"
)

// Doer sends an HTTP request, *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient talks to the lab REST API
type HTTPClient struct {
	log       *logger.Logger
	http      Doer
	baseURL   string
	mediaURL  string
	notifyURL string
}

// NewHTTPClient function for creating new client
func NewHTTPClient(baseURL, mediaURL, notifyURL string, doer Doer, log *logger.Logger) *HTTPClient {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &HTTPClient{
		log:       log,
		http:      doer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		mediaURL:  strings.TrimRight(mediaURL, "/"),
		notifyURL: notifyURL,
	}
}

func (c *HTTPClient) endpoint(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// call performs one request/response cycle and returns the normalized payload
func (c *HTTPClient) call(ctx context.Context, method, url string, payload interface{}) (interface{}, error) {
	op := method + " " + url

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, newTransportError(op, errors.Wrap(err, "encode request"))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, newTransportError(op, errors.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("Request " + op)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.log.Error("Request " + op + " failed: " + err.Error())
		return nil, newTransportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("Reading response of " + op + " failed: " + err.Error())
		return nil, newTransportError(op, errors.Wrap(err, "read response"))
	}

	data, err := normalize(resp.StatusCode, raw)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			transportErr.Op = op
		}
		c.log.Warning("Request " + op + " rejected: " + err.Error())
		return nil, err
	}
	return data, nil
}

// normalize folds the envelopes the API answers with into one shape: a
// bare array or the resource field is data, success:false or a non-2xx
// status is an *APIError
func normalize(status int, raw []byte) (interface{}, error) {
	ok := status >= 200 && status < 300

	var decoded interface{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &decoded); err != nil {
			if ok {
				return nil, &TransportError{Err: errors.Wrap(err, "decode response")}
			}
			return nil, &APIError{Status: status}
		}
	}

	envelope, isObject := decoded.(map[string]interface{})
	if !ok {
		apiErr := &APIError{Status: status}
		if isObject {
			apiErr.Message = messageOf(envelope)
		}
		return nil, apiErr
	}

	if !isObject {
		return decoded, nil
	}

	if success, present := lookup(envelope, "success").(bool); present && !success {
		return nil, &APIError{Status: status, Message: messageOf(envelope)}
	}
	return lookup(envelope, "resource"), nil
}

// lookup reads an envelope field ignoring the key case
func lookup(envelope map[string]interface{}, key string) interface{} {
	if v, ok := envelope[key]; ok {
		return v
	}
	for k, v := range envelope {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func messageOf(envelope map[string]interface{}) string {
	switch m := lookup(envelope, "message").(type) {
	case string:
		return m
	case nil:
	default:
		data, err := json.Marshal(m)
		if err == nil {
			return string(data)
		}
	}
	if title, ok := lookup(envelope, "title").(string); ok {
		return title
	}
	return ""
}

// decodeInto maps a generic payload onto typed structs by their json tags
func decodeInto(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Login signs a doctor in by email or an assistant by phone
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	c.log.Info("Login called!")

	var url string
	var payload map[string]string
	switch creds.Role {
	case models.RoleDoctor:
		url = c.endpoint("User", "login", "Admin")
		payload = map[string]string{"email": creds.Identifier, "password": creds.Password}
	case models.RoleAssistant:
		url = c.endpoint("User", "login", "Assistant")
		payload = map[string]string{"phone": creds.Identifier, "password": creds.Password}
	default:
		return models.User{}, errors.Errorf("unknown role %q", creds.Role)
	}

	data, err := c.call(ctx, http.MethodPost, url, payload)
	if err != nil {
		c.log.Error("Error login user")
		return models.User{}, err
	}

	var user models.User
	if raw, ok := data.(map[string]interface{}); ok {
		user.Raw = raw
		if err := decodeInto(raw, &user); err != nil {
			return models.User{}, newTransportError("login", errors.Wrap(err, "decode user"))
		}
	}
	if user.Email == "" && creds.Role == models.RoleDoctor {
		user.Email = creds.Identifier
	}
	if user.Phone == "" && creds.Role == models.RoleAssistant {
		user.Phone = creds.Identifier
	}

	return user, nil
}

// UpdateCoins sets the coin balance of a client
func (c *HTTPClient) UpdateCoins(ctx context.Context, update models.CoinsUpdate) error {
	c.log.Info("UpdateCoins called!")

	_, err := c.call(ctx, http.MethodPost, c.endpoint(ClientPath, "UpdateCoins"), update)
	return err
}

// SendNotification dispatches a push notification
func (c *HTTPClient) SendNotification(ctx context.Context, n models.Notification) error {
	c.log.Info("SendNotification called!")

	_, err := c.call(ctx, http.MethodPost, c.notifyURL, n)
	return err
}

// ImageURL resolves a served-back image path against the media origin
func (c *HTTPClient) ImageURL(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "data:"):
		return path
	default:
		return c.mediaURL + "/" + strings.TrimLeft(path, "/")
	}
}

// Clients resource
func (c *HTTPClient) Clients() *Resource[models.Client] {
	return NewResource[models.Client](c, ClientPath)
}

// LabTests resource
func (c *HTTPClient) LabTests() *Resource[models.LabTest] {
	return NewResource[models.LabTest](c, LabTestPath)
}

// Categories resource
func (c *HTTPClient) Categories() *Resource[models.Category] {
	return NewResource[models.Category](c, CategoryPath)
}

// Unions resource, writes are bounded by uploadTimeout
func (c *HTTPClient) Unions(uploadTimeout time.Duration) *Resource[models.Union] {
	return NewResource[models.Union](c, UnionPath, WithTimeout(uploadTimeout))
}

// Ads resource
func (c *HTTPClient) Ads() *Resource[models.Ad] {
	return NewResource[models.Ad](c, AdPath)
}
