package domain

import "time"

// Admin is a dashboard operator. Password holds a bcrypt hash and never leaves the server.
type Admin struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"-"`
}

// Client is a portfolio entry shown on the public site.
type Client struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	LogoURL     *string   `json:"logoUrl" yaml:"logoUrl"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

type Review struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Company   string    `json:"company" yaml:"company"`
	Rating    int       `json:"rating" yaml:"rating"`
	Text      string    `json:"text" yaml:"text"`
	Approved  bool      `json:"approved" yaml:"approved"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Booking struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     string    `json:"phone" yaml:"phone"`
	Service   string    `json:"service" yaml:"service"`
	Message   string    `json:"message" yaml:"message"`
	Read      bool      `json:"read" yaml:"read"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Insert payloads carry only caller-supplied fields; id, createdAt and the
// approved/read flags are assigned by storage.

type NewAdmin struct {
	Username string
	Password string // already hashed
}

type NewClient struct {
	Name        string
	Category    string
	Description string
	LogoURL     *string
}

// ClientPatch is a partial update; nil fields are left untouched.
type ClientPatch struct {
	Name        *string
	Category    *string
	Description *string
	LogoURL     *string
}

// Empty reports whether the patch changes nothing.
func (p ClientPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil && p.LogoURL == nil
}

// Apply merges the supplied fields into c.
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.LogoURL != nil {
		logo := *p.LogoURL
		c.LogoURL = &logo
	}
}

type NewReview struct {
	Name    string
	Company string
	Rating  int
	Text    string
}

type NewBooking struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

// Services offered through the contact form, keyed by the value a booking carries.
var Services = []ServiceOption{
	{Value: "social-media", Label: "Social Media Management"},
	{Value: "website", Label: "Website Development"},
	{Value: "graphic-design", Label: "Graphic Design"},
	{Value: "motion-graphics", Label: "Motion Graphics"},
	{Value: "video-photo", Label: "Video & Photo Graphics"},
	{Value: "digital-marketing", Label: "Digital Marketing"},
}

type ServiceOption struct {
	Value string
	Label string
}

// ServiceLabel returns the display label for a booking service value.
func ServiceLabel(value string) (string, bool) {
	for _, s := range Services {
		if s.Value == value {
			return s.Label, true
		}
	}
	return "", false
}

// Content is the public-facing data set written by the export command.
type Content struct {
	Clients  []Client  `json:"clients" yaml:"clients"`
	Reviews  []Review  `json:"reviews" yaml:"reviews"`
	Bookings []Booking `json:"bookings" yaml:"bookings"`
}
