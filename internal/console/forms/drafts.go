package forms

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/models"
)

// Gender values stored by the API
const (
	GenderMale   = "ذكر"
	GenderFemale = "أنثى"
)

// Gender labels shown by the client form
const (
	GenderMaleLabel   = "Male"
	GenderFemaleLabel = "Female"
)

// NormalizeGender maps a stored or displayed gender to its API value.
// Unknown values are returned unchanged.
func NormalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case GenderMale, strings.ToLower(GenderMaleLabel):
		return GenderMale
	case GenderFemale, strings.ToLower(GenderFemaleLabel):
		return GenderFemale
	default:
		return s
	}
}

// GenderLabel is the form label of an API gender value
func GenderLabel(gender string) string {
	switch NormalizeGender(gender) {
	case GenderMale:
		return GenderMaleLabel
	case GenderFemale:
		return GenderFemaleLabel
	default:
		return gender
	}
}

// DefaultCategoryColor is used when a category is saved without a color
const DefaultCategoryColor = "#005FA1"

// ClientDraft is the editable state of a client
type ClientDraft struct {
	ID     int
	Name   string `validate:"required" label:"Name"`
	Phone  string `validate:"required,len=10,number" label:"Phone"`
	Gender string
	Coins  string `validate:"omitempty,numeric" label:"Coins"`
	Union  string
}

// NewClientDraft returns the defaults of a new client
func NewClientDraft() ClientDraft {
	return ClientDraft{Gender: GenderMale}
}

// ClientDraftFrom seeds a draft from a client
func ClientDraftFrom(c models.Client) ClientDraft {
	gender := NormalizeGender(c.Gender)
	if gender == "" {
		gender = GenderMale
	}
	return ClientDraft{
		ID:     c.ID,
		Name:   c.Name,
		Phone:  c.Phone,
		Gender: gender,
		Coins:  cast.ToString(c.Bonus),
		Union:  c.Address,
	}
}

// ToModel builds the request payload
func (d ClientDraft) ToModel() models.Client {
	gender := NormalizeGender(d.Gender)
	if gender == "" {
		gender = GenderMale
	}
	coins, _ := parseNumber("Coins", d.Coins)
	return models.Client{
		ID:      d.ID,
		Name:    strings.TrimSpace(d.Name),
		Phone:   strings.TrimSpace(d.Phone),
		Gender:  gender,
		Bonus:   coins,
		Address: d.Union,
	}
}

// ValidateClient checks the draft and that no other client owns the phone
func ValidateClient(d ClientDraft, clients Lookup[models.Client]) error {
	d.Phone = strings.TrimSpace(d.Phone)
	d.Name = strings.TrimSpace(d.Name)
	if err := checkStruct(d); err != nil {
		return err
	}
	if g := NormalizeGender(d.Gender); g != "" && g != GenderMale && g != GenderFemale {
		return invalid("Gender", "Gender must be %s or %s", GenderMaleLabel, GenderFemaleLabel)
	}
	if clients != nil && clients.Any(func(c models.Client) bool { return c.Phone == d.Phone }, d.ID) {
		return invalid("Phone", "Phone %s is already registered to another client", d.Phone)
	}
	return nil
}

// LabTestDraft is the editable state of a lab test
type LabTestDraft struct {
	ID              int
	Name            string `validate:"required" label:"Name"`
	Price           string `validate:"required,numeric" label:"Price"`
	Coins           string `validate:"omitempty,numeric" label:"Coins"`
	UnionCoins      string `validate:"omitempty,numeric" label:"Union coins"`
	FirstUnionCoins string `validate:"omitempty,numeric" label:"First union coins"`
	LastUnionCoins  string `validate:"omitempty,numeric" label:"Last union coins"`
	CategoryID      int    `validate:"required" label:"Category"`
	OrderRank       int
	Image           ImageField
}

// LabTestDraftFrom seeds a draft from a lab test, the image stays unpicked
func LabTestDraftFrom(l models.LabTest) LabTestDraft {
	return LabTestDraft{
		ID:              l.ID,
		Name:            l.Name,
		Price:           cast.ToString(l.Price),
		Coins:           cast.ToString(l.Coins),
		UnionCoins:      cast.ToString(l.UnionCoins),
		FirstUnionCoins: cast.ToString(l.FirstUnionCoins),
		LastUnionCoins:  cast.ToString(l.LastUnionCoins),
		CategoryID:      l.CategoryID,
		OrderRank:       l.OrderRank,
		Image:           ImageField{Existing: l.ImageURL},
	}
}

// ToModel builds the request payload
func (d LabTestDraft) ToModel() models.LabTest {
	price, _ := parseNumber("Price", d.Price)
	coins, _ := parseNumber("Coins", d.Coins)
	unionCoins, _ := parseNumber("Union coins", d.UnionCoins)
	first, _ := parseNumber("First union coins", d.FirstUnionCoins)
	last, _ := parseNumber("Last union coins", d.LastUnionCoins)

	lab := models.LabTest{
		ID:              d.ID,
		Name:            strings.TrimSpace(d.Name),
		Price:           price,
		Coins:           coins,
		UnionCoins:      unionCoins,
		FirstUnionCoins: first,
		LastUnionCoins:  last,
		CategoryID:      d.CategoryID,
		OrderRank:       d.OrderRank,
		ImageBase64:     d.Image.Base64(),
	}
	if !d.Image.Picked() {
		lab.ImageURL = d.Image.Existing
	}
	return lab
}

// ValidateLabTest checks the draft and that its category exists
func ValidateLabTest(d LabTestDraft, categories Lookup[models.Category]) error {
	d.Name = strings.TrimSpace(d.Name)
	if err := checkStruct(d); err != nil {
		return err
	}
	if _, err := parseNumber("Price", d.Price); err != nil {
		return err
	}
	if categories != nil && !categories.Any(func(c models.Category) bool { return c.ID == d.CategoryID }, 0) {
		return invalid("Category", "Category no longer exists, pick another one")
	}
	return nil
}

// CategoryDraft is the editable state of a category
type CategoryDraft struct {
	ID        int
	Name      string `validate:"required" label:"Name"`
	OrderRank string `validate:"required" label:"Order rank"`
	ColorHexa string `validate:"omitempty,hexcolor" label:"Color"`
}

// NewCategoryDraft pre-fills the next free order rank
func NewCategoryDraft(categories []models.Category) CategoryDraft {
	return CategoryDraft{
		OrderRank: cast.ToString(NextOrderRank(categories)),
		ColorHexa: DefaultCategoryColor,
	}
}

// CategoryDraftFrom seeds a draft from a category
func CategoryDraftFrom(c models.Category) CategoryDraft {
	return CategoryDraft{
		ID:        c.ID,
		Name:      c.Name,
		OrderRank: cast.ToString(c.OrderRank),
		ColorHexa: c.ColorHexa,
	}
}

// ToModel builds the request payload
func (d CategoryDraft) ToModel() models.Category {
	rank, _ := parseRank("Order rank", d.OrderRank)
	color := strings.TrimSpace(d.ColorHexa)
	if color == "" {
		color = DefaultCategoryColor
	}
	return models.Category{
		ID:        d.ID,
		Name:      strings.TrimSpace(d.Name),
		OrderRank: rank,
		ColorHexa: color,
	}
}

// ValidateCategory checks the draft, the name and the order rank against
// the other categories
func ValidateCategory(d CategoryDraft, categories Lookup[models.Category]) error {
	d.Name = strings.TrimSpace(d.Name)
	if err := checkStruct(d); err != nil {
		return err
	}
	rank, err := parseRank("Order rank", d.OrderRank)
	if err != nil {
		return err
	}
	if categories == nil {
		return nil
	}

	if categories.Any(func(c models.Category) bool { return sameName(c.Name, d.Name) }, d.ID) {
		return invalid("Name", "Category %q already exists", d.Name)
	}

	if categories.Any(func(c models.Category) bool { return c.OrderRank == rank }, d.ID) {
		var used []int
		for _, c := range categories.Items() {
			if c.ID != d.ID || d.ID == 0 {
				used = append(used, c.OrderRank)
			}
		}
		return invalid("Order rank", "Order rank %d is already used. Available ranks: %s",
			rank, joinInts(SuggestOrderRanks(used)))
	}
	return nil
}

// SuggestOrderRanks returns up to five unused ranks between 1 and max+3
func SuggestOrderRanks(used []int) []int {
	taken := make(map[int]bool, len(used))
	maxRank := 0
	for _, r := range used {
		taken[r] = true
		if r > maxRank {
			maxRank = r
		}
	}

	var out []int
	for r := 1; r <= maxRank+3 && len(out) < 5; r++ {
		if !taken[r] {
			out = append(out, r)
		}
	}
	return out
}

// NextOrderRank is one past the highest rank, 1 for an empty collection
func NextOrderRank(categories []models.Category) int {
	maxRank := 0
	for _, c := range categories {
		if c.OrderRank > maxRank {
			maxRank = c.OrderRank
		}
	}
	return maxRank + 1
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

// UnionDraft is the editable state of a union
type UnionDraft struct {
	ID        int
	Name      string `validate:"required" label:"Name"`
	DisCount  string `validate:"required,numeric" label:"Discount"`
	OrderRank string `validate:"omitempty,number" label:"Order rank"`
	Image     ImageField
}

// UnionDraftFrom seeds a draft from a union
func UnionDraftFrom(u models.Union) UnionDraft {
	return UnionDraft{
		ID:        u.ID,
		Name:      u.Name,
		DisCount:  cast.ToString(u.DisCount),
		OrderRank: cast.ToString(u.OrderRank),
		Image:     ImageField{Existing: u.ImageURL},
	}
}

// ToModel builds the request payload
func (d UnionDraft) ToModel() models.Union {
	discount, _ := parseNumber("Discount", d.DisCount)
	union := models.Union{
		ID:          d.ID,
		Name:        strings.TrimSpace(d.Name),
		DisCount:    discount,
		OrderRank:   cast.ToInt(strings.TrimLeft(d.OrderRank, "0")),
		ImageBase64: d.Image.Base64(),
	}
	if !d.Image.Picked() {
		union.ImageURL = d.Image.Existing
	}
	return union
}

// ValidateUnion checks the draft, the discount range and the name. A new
// union needs an image.
func ValidateUnion(d UnionDraft, mode State, unions Lookup[models.Union]) error {
	d.Name = strings.TrimSpace(d.Name)
	if err := checkStruct(d); err != nil {
		return err
	}
	if _, err := parsePercent("Discount", d.DisCount); err != nil {
		return err
	}
	if mode == OpenCreate && !d.Image.Picked() {
		return invalid("Image", "Image is required")
	}
	if unions != nil && unions.Any(func(u models.Union) bool { return sameName(u.Name, d.Name) }, d.ID) {
		return invalid("Name", "Union %q already exists", d.Name)
	}
	return nil
}

// AdDraft is the editable state of an ad
type AdDraft struct {
	ID    int
	Image ImageField
}

// ToModel builds the request payload
func (d AdDraft) ToModel() models.Ad {
	return models.Ad{ID: d.ID, ImageBase64: d.Image.Base64()}
}

// ValidateAd requires a picked image
func ValidateAd(d AdDraft) error {
	if !d.Image.Picked() {
		return invalid("Image", "Image is required")
	}
	return nil
}

// NotificationDraft is the editable state of a push notification
type NotificationDraft struct {
	Title string `validate:"required" label:"Title"`
	Body  string `validate:"required" label:"Body"`
}

// ToModel builds the request payload
func (d NotificationDraft) ToModel() models.Notification {
	return models.Notification{Title: strings.TrimSpace(d.Title), Body: strings.TrimSpace(d.Body)}
}

// ValidateNotification requires a title and a body
func ValidateNotification(d NotificationDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Body = strings.TrimSpace(d.Body)
	return checkStruct(d)
}

// LoginDraft is the editable state of the login screen
type LoginDraft struct {
	Role       models.Role `validate:"required,oneof=doctor assistant" label:"Role"`
	Identifier string      `validate:"required" label:"Login"`
	Password   string      `validate:"required" label:"Password"`
}

// ToCredentials builds the login payload
func (d LoginDraft) ToCredentials() models.Credentials {
	return models.Credentials{Role: d.Role, Identifier: strings.TrimSpace(d.Identifier), Password: d.Password}
}

// IdentifierLabel names the identifier the role signs in with
func (d LoginDraft) IdentifierLabel() string {
	if d.Role == models.RoleAssistant {
		return "Phone"
	}
	return "Email"
}

// ValidateLogin requires an email for doctors and a phone for assistants
func ValidateLogin(d LoginDraft) error {
	d.Identifier = strings.TrimSpace(d.Identifier)
	if err := checkStruct(d); err != nil {
		return err
	}
	switch d.Role {
	case models.RoleDoctor:
		if err := validate.Var(d.Identifier, "email"); err != nil {
			return invalid("Email", "Email must be a valid email address")
		}
	case models.RoleAssistant:
		if err := validate.Var(d.Identifier, "number"); err != nil {
			return invalid("Phone", "Phone must contain digits only")
		}
	}
	return nil
}
