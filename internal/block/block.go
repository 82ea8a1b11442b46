// Package block defines the typed content blocks a campaign is composed of
// and renders each variant to email-safe table markup.
package block

// Kind tags a content block variant.
type Kind string

const (
	KindHeader Kind = "header"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindButton Kind = "button"
	KindFooter Kind = "footer"
)

// Block is the closed set of content block variants. Only the types in this
// package implement it.
type Block interface {
	Kind() Kind
}

// Header is the campaign masthead: optional logo, title, subtitle.
type Header struct {
	LogoURL  string `json:"logo_url,omitempty"`
	LogoAlt  string `json:"logo_alt,omitempty"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

func (Header) Kind() Kind { return KindHeader }

// Text carries editor-authored HTML content.
type Text struct {
	Content   string `json:"content"`
	Alignment string `json:"alignment,omitempty"`
}

func (Text) Kind() Kind { return KindText }

type Image struct {
	URL       string `json:"url"`
	AltText   string `json:"alt_text,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

func (Image) Kind() Kind { return KindImage }

type Button struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Color     string `json:"color,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

func (Button) Kind() Kind { return KindButton }

type Footer struct {
	Content            string `json:"content,omitempty"`
	IncludeUnsubscribe bool   `json:"include_unsubscribe,omitempty"`
}

func (Footer) Kind() Kind { return KindFooter }
