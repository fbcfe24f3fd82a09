package models

// Entity is a record that the remote API identifies by an integer id
type Entity interface {
	EntityID() int
}

// Client is a lab customer
type Client struct {
	ID      int     `json:"id,omitempty"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Gender  string  `json:"gender"`
	Bonus   float64 `json:"bonus"`
	Address string  `json:"address"`
}

// EntityID implements Entity
func (c Client) EntityID() int { return c.ID }

// LabTest is a medical test offered by the lab
type LabTest struct {
	ID              int     `json:"id,omitempty"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Coins           float64 `json:"coins"`
	UnionCoins      float64 `json:"unionCoins"`
	FirstUnionCoins float64 `json:"firstUnionCoins"`
	LastUnionCoins  float64 `json:"lastUnionCoins"`
	CategoryID      int     `json:"categoryId"`
	OrderRank       int     `json:"orderRank"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	ImageBase64     string  `json:"imageBase64,omitempty"`
}

// EntityID implements Entity
func (l LabTest) EntityID() int { return l.ID }

// Category groups lab tests, OrderRank drives display order
type Category struct {
	ID        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	OrderRank int    `json:"orderRank"`
	ColorHexa string `json:"colorHexa"`
}

// EntityID implements Entity
func (c Category) EntityID() int { return c.ID }

// Union is a labor union that grants its members a discount
type Union struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name"`
	DisCount    float64 `json:"disCount"`
	OrderRank   int     `json:"orderRank"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	ImageBase64 string  `json:"imageBase64,omitempty"`
}

// EntityID implements Entity
func (u Union) EntityID() int { return u.ID }

// Ad is an image-only promotional unit
type Ad struct {
	ID          int    `json:"id,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// EntityID implements Entity
func (a Ad) EntityID() int { return a.ID }

// Notification is a push message dispatched to the mobile app users
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CoinsUpdate sets the coin balance of the client owning Phone
type CoinsUpdate struct {
	Phone string  `json:"phone"`
	Coins float64 `json:"coins"`
}
