package forms

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vova4o/labconsole/internal/console/imagecodec"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/internal/console/toast"
)

func loaded[T models.Entity](items ...T) *listview.ListView[T] {
	v := listview.New(listview.Options[T]{})
	v.Replace(items)
	return v
}

func testImage(t *testing.T) *imagecodec.Encoded {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	enc, err := imagecodec.Encode("pic.png", &buf, 1<<20)
	require.NoError(t, err)
	return enc
}

func TestValidateClient(t *testing.T) {
	clients := loaded(
		models.Client{ID: 1, Name: "Ali", Phone: "0111111111"},
		models.Client{ID: 2, Name: "Mona", Phone: "0122222222"},
	)

	tests := []struct {
		name     string
		draft    ClientDraft
		expected string
	}{
		{name: "valid", draft: ClientDraft{Name: "Sara", Phone: "0123456789", Gender: GenderFemale}},
		{name: "missing name", draft: ClientDraft{Phone: "0123456789"}, expected: "Name is required"},
		{name: "missing phone", draft: ClientDraft{Name: "Sara"}, expected: "Phone is required"},
		{name: "short phone", draft: ClientDraft{Name: "Sara", Phone: "123"}, expected: "Phone must be exactly 10 digits"},
		{name: "letters in phone", draft: ClientDraft{Name: "Sara", Phone: "01234abcde"}, expected: "Phone must contain digits only"},
		{name: "bad coins", draft: ClientDraft{Name: "Sara", Phone: "0123456789", Coins: "ten"}, expected: "Coins must be a number"},
		{name: "unknown gender", draft: ClientDraft{Name: "Sara", Phone: "0123456789", Gender: "Other"}, expected: "Gender must be Male or Female"},
		{name: "english label", draft: ClientDraft{Name: "Sara", Phone: "0123456789", Gender: "female"}},
		{name: "phone taken", draft: ClientDraft{Name: "Sara", Phone: "0122222222"}, expected: "Phone 0122222222 is already registered to another client"},
		{name: "own phone on edit", draft: ClientDraft{ID: 2, Name: "Mona", Phone: "0122222222"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClient(tt.draft, clients)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidation(err))
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestClientDraftMapping(t *testing.T) {
	d := NewClientDraft()
	assert.Equal(t, GenderMale, d.Gender)

	d.Name = " Sara "
	d.Phone = "0123456789"
	d.Coins = "12.5"
	d.Union = "Teachers"
	assert.Equal(t, models.Client{Name: "Sara", Phone: "0123456789", Gender: GenderMale, Bonus: 12.5, Address: "Teachers"}, d.ToModel())

	seeded := ClientDraftFrom(models.Client{ID: 3, Name: "Ali", Phone: "0111111111", Bonus: 4, Address: "Engineers"})
	assert.Equal(t, ClientDraft{ID: 3, Name: "Ali", Phone: "0111111111", Gender: GenderMale, Coins: "4", Union: "Engineers"}, seeded)

	empty := ClientDraft{Name: "x", Phone: "0123456789"}
	assert.Equal(t, float64(0), empty.ToModel().Bonus)
}

func TestClientGenderVocabulary(t *testing.T) {
	stored := models.Client{ID: 7, Name: "Mona", Phone: "0100000007", Gender: "أنثى"}

	d := ClientDraftFrom(stored)
	assert.Equal(t, GenderFemale, d.Gender)
	assert.Equal(t, GenderFemaleLabel, GenderLabel(d.Gender))
	require.NoError(t, ValidateClient(d, nil))
	assert.Equal(t, stored, d.ToModel())

	legacy := ClientDraftFrom(models.Client{ID: 8, Name: "Ali", Phone: "0100000008", Gender: "Male"})
	assert.Equal(t, GenderMale, legacy.Gender)
	assert.Equal(t, "ذكر", legacy.ToModel().Gender)

	tests := []struct {
		in       string
		expected string
	}{
		{"ذكر", GenderMale},
		{"أنثى", GenderFemale},
		{"Male", GenderMale},
		{" female ", GenderFemale},
		{"", ""},
		{"Other", "Other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeGender(tt.in), tt.in)
	}
	assert.Equal(t, GenderMaleLabel, GenderLabel("ذكر"))
}

func TestValidateCategory(t *testing.T) {
	categories := loaded(
		models.Category{ID: 1, Name: "Blood", OrderRank: 1},
		models.Category{ID: 2, Name: "Urine", OrderRank: 2},
		models.Category{ID: 3, Name: "Hormones", OrderRank: 3},
	)

	tests := []struct {
		name     string
		draft    CategoryDraft
		expected string
	}{
		{name: "valid", draft: CategoryDraft{Name: "Vitamins", OrderRank: "4"}},
		{name: "missing name", draft: CategoryDraft{OrderRank: "4"}, expected: "Name is required"},
		{name: "zero rank", draft: CategoryDraft{Name: "Vitamins", OrderRank: "0"}, expected: "Order rank must be a positive whole number"},
		{name: "negative rank", draft: CategoryDraft{Name: "Vitamins", OrderRank: "-2"}, expected: "Order rank must be a positive whole number"},
		{name: "fractional rank", draft: CategoryDraft{Name: "Vitamins", OrderRank: "2.5"}, expected: "Order rank must be a positive whole number"},
		{name: "bad color", draft: CategoryDraft{Name: "Vitamins", OrderRank: "4", ColorHexa: "blue"}, expected: "Color must be a color such as #005FA1"},
		{name: "name taken ignoring case", draft: CategoryDraft{Name: "bLOOD", OrderRank: "4"}, expected: `Category "bLOOD" already exists`},
		{
			name:     "rank 3 taken",
			draft:    CategoryDraft{Name: "Vitamins", OrderRank: "3"},
			expected: "Order rank 3 is already used. Available ranks: 4, 5, 6",
		},
		{name: "keeping own rank on edit", draft: CategoryDraft{ID: 3, Name: "Hormones", OrderRank: "3"}},
		{name: "leading zero", draft: CategoryDraft{Name: "Vitamins", OrderRank: "08"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.draft, categories)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestSuggestOrderRanks(t *testing.T) {
	tests := []struct {
		name     string
		used     []int
		expected []int
	}{
		{"empty", nil, []int{1, 2, 3}},
		{"gaps first", []int{2, 4, 9}, []int{1, 3, 5, 6, 7}},
		{"dense", []int{1, 2, 3}, []int{4, 5, 6}},
		{"capped at five", []int{10}, []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestOrderRanks(tt.used))
		})
	}
}

func TestNewCategoryDraft(t *testing.T) {
	d := NewCategoryDraft(nil)
	assert.Equal(t, "1", d.OrderRank)
	assert.Equal(t, DefaultCategoryColor, d.ColorHexa)

	d = NewCategoryDraft([]models.Category{{OrderRank: 2}, {OrderRank: 7}})
	assert.Equal(t, "8", d.OrderRank)

	m := CategoryDraft{Name: " Vitamins ", OrderRank: "8"}.ToModel()
	assert.Equal(t, models.Category{Name: "Vitamins", OrderRank: 8, ColorHexa: DefaultCategoryColor}, m)
}

func TestValidateLabTest(t *testing.T) {
	categories := loaded(models.Category{ID: 5, Name: "Blood"})

	tests := []struct {
		name     string
		draft    LabTestDraft
		expected string
	}{
		{name: "valid", draft: LabTestDraft{Name: "CBC", Price: "150", CategoryID: 5}},
		{name: "missing price", draft: LabTestDraft{Name: "CBC", CategoryID: 5}, expected: "Price is required"},
		{name: "bad price", draft: LabTestDraft{Name: "CBC", Price: "cheap", CategoryID: 5}, expected: "Price must be a number"},
		{name: "bad coins", draft: LabTestDraft{Name: "CBC", Price: "150", Coins: "x", CategoryID: 5}, expected: "Coins must be a number"},
		{name: "no category", draft: LabTestDraft{Name: "CBC", Price: "150"}, expected: "Category is required"},
		{name: "deleted category", draft: LabTestDraft{Name: "CBC", Price: "150", CategoryID: 9}, expected: "Category no longer exists, pick another one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabTest(tt.draft, categories)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestLabTestDraftImage(t *testing.T) {
	previews := imagecodec.NewPreviews()
	d := LabTestDraftFrom(models.LabTest{ID: 1, Name: "CBC", Price: 150, CategoryID: 5, ImageURL: "/Images/cbc.png"})

	m := d.ToModel()
	assert.Equal(t, "/Images/cbc.png", m.ImageURL)
	assert.Empty(t, m.ImageBase64)

	enc := testImage(t)
	d.Image.Replace(previews, enc)
	first := d.Image.Preview
	d.Image.Replace(previews, enc)
	assert.Equal(t, 1, previews.Len())
	_, ok := previews.Resource(first)
	assert.False(t, ok)

	m = d.ToModel()
	assert.Equal(t, enc.Base64, m.ImageBase64)
	assert.Empty(t, m.ImageURL)

	d.Image.Release(previews)
	assert.Equal(t, 0, previews.Len())
	assert.False(t, d.Image.Picked())
}

func TestValidateUnion(t *testing.T) {
	unions := loaded(models.Union{ID: 1, Name: "Teachers", DisCount: 10})
	picked := ImageField{Encoded: testImage(t)}

	tests := []struct {
		name     string
		draft    UnionDraft
		mode     State
		expected string
	}{
		{name: "valid create", draft: UnionDraft{Name: "Engineers", DisCount: "15", Image: picked}, mode: OpenCreate},
		{name: "create without image", draft: UnionDraft{Name: "Engineers", DisCount: "15"}, mode: OpenCreate, expected: "Image is required"},
		{name: "edit keeps image", draft: UnionDraft{ID: 1, Name: "Teachers", DisCount: "20"}, mode: OpenEdit},
		{name: "discount over 100", draft: UnionDraft{Name: "Engineers", DisCount: "120", Image: picked}, mode: OpenCreate, expected: "Discount must be between 0 and 100"},
		{name: "negative discount", draft: UnionDraft{Name: "Engineers", DisCount: "-1", Image: picked}, mode: OpenCreate, expected: "Discount must be between 0 and 100"},
		{name: "name taken", draft: UnionDraft{Name: "teachers", DisCount: "5", Image: picked}, mode: OpenCreate, expected: `Union "teachers" already exists`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnion(tt.draft, tt.mode, unions)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
		})
	}
}

func TestSimpleDrafts(t *testing.T) {
	assert.EqualError(t, ValidateAd(AdDraft{}), "Image is required")
	assert.NoError(t, ValidateAd(AdDraft{Image: ImageField{Encoded: testImage(t)}}))

	assert.EqualError(t, ValidateNotification(NotificationDraft{Title: "  ", Body: "x"}), "Title is required")
	assert.EqualError(t, ValidateNotification(NotificationDraft{Title: "Offer"}), "Body is required")
	assert.NoError(t, ValidateNotification(NotificationDraft{Title: "Offer", Body: "20% off"}))
	assert.Equal(t, models.Notification{Title: "Offer", Body: "x"}, NotificationDraft{Title: " Offer ", Body: "x "}.ToModel())
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		draft    LoginDraft
		expected string
	}{
		{name: "doctor", draft: LoginDraft{Role: models.RoleDoctor, Identifier: "hana@lab.test", Password: "p"}},
		{name: "assistant", draft: LoginDraft{Role: models.RoleAssistant, Identifier: "0123456789", Password: "p"}},
		{name: "no role", draft: LoginDraft{Identifier: "a@b.c", Password: "p"}, expected: "Role is required"},
		{name: "no password", draft: LoginDraft{Role: models.RoleDoctor, Identifier: "a@b.c"}, expected: "Password is required"},
		{name: "doctor with phone", draft: LoginDraft{Role: models.RoleDoctor, Identifier: "0123456789", Password: "p"}, expected: "Email must be a valid email address"},
		{name: "assistant with email", draft: LoginDraft{Role: models.RoleAssistant, Identifier: "a@b.c", Password: "p"}, expected: "Phone must contain digits only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.draft)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
		})
	}

	assert.Equal(t, "Phone", LoginDraft{Role: models.RoleAssistant}.IdentifierLabel())
	assert.Equal(t, "Email", LoginDraft{Role: models.RoleDoctor}.IdentifierLabel())
}

// MockCoinsUpdater is a mock implementation of the CoinsUpdater interface
type MockCoinsUpdater struct {
	mock.Mock
}

func (m *MockCoinsUpdater) UpdateCoins(ctx context.Context, update models.CoinsUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func TestAddCoins(t *testing.T) {
	clients := loaded(models.Client{ID: 1, Phone: "0123456789", Bonus: 10})
	labs := loaded(
		models.LabTest{ID: 1, Name: "CBC", Price: 200},
		models.LabTest{ID: 2, Name: "Sugar", Price: 50},
	)

	tests := []struct {
		name      string
		draft     CoinsDraft
		update    *models.CoinsUpdate
		serverErr error
		expectErr string
	}{
		{
			name:   "two labs",
			draft:  CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 1, Discount: "10"}, {LabID: 2, Discount: "50"}}},
			update: &models.CoinsUpdate{Phone: "0123456789", Coins: 10 + 20 + 25},
		},
		{
			name:   "empty discount counts as zero",
			draft:  CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 1}, {LabID: 2, Discount: "10"}}},
			update: &models.CoinsUpdate{Phone: "0123456789", Coins: 15},
		},
		{
			name:      "zero total",
			draft:     CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 1}, {LabID: 2, Discount: "0"}}},
			expectErr: "The picked lab tests add no coins, enter a discount",
		},
		{
			name:      "unknown lab test",
			draft:     CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 2, Discount: "10"}, {LabID: 99, Discount: "10"}}},
			expectErr: "Lab test 99 is not loaded, refresh the list",
		},
		{
			name:      "unknown phone",
			draft:     CoinsDraft{Phone: "0999999999", Lines: []CoinsLine{{LabID: 1, Discount: "10"}}},
			expectErr: "No client is registered with phone 0999999999",
		},
		{
			name:      "no labs",
			draft:     CoinsDraft{Phone: "0123456789"},
			expectErr: "Pick at least one lab test",
		},
		{
			name:      "discount over 100",
			draft:     CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 2, Discount: "150"}}},
			expectErr: "Discount of Sugar must be between 0 and 100",
		},
		{
			name:      "server failure",
			draft:     CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 2, Discount: "10"}}},
			update:    &models.CoinsUpdate{Phone: "0123456789", Coins: 15},
			serverErr: errors.New("boom"),
			expectErr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := new(MockCoinsUpdater)
			rec := &toast.Recorder{}
			refreshed := 0

			if tt.update != nil {
				updater.On("UpdateCoins", mock.Anything, *tt.update).Once().Return(tt.serverErr)
			}

			err := AddCoins(context.Background(), tt.draft, clients, labs, updater, func(context.Context) error {
				refreshed++
				return nil
			}, rec)

			if tt.expectErr != "" {
				assert.EqualError(t, err, tt.expectErr)
				assert.Equal(t, 0, refreshed)
				assert.Equal(t, 1, rec.Count(toast.Error))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, refreshed)
				assert.Equal(t, 1, rec.Count(toast.Success))
			}
			updater.AssertExpectations(t)
		})
	}
}

func TestPrepareCoinsRejectsUnknownLab(t *testing.T) {
	clients := loaded(models.Client{ID: 1, Phone: "0123456789", Bonus: 10})
	labs := loaded(models.LabTest{ID: 1, Name: "CBC", Price: 200})

	_, total, err := PrepareCoins(CoinsDraft{Phone: "0123456789", Lines: []CoinsLine{{LabID: 7, Discount: "10"}}}, clients, labs)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, total)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "45", formatAmount(45))
	assert.Equal(t, "2.5", formatAmount(2.5))
	assert.Equal(t, "0.33", formatAmount(1.0/3))
}
