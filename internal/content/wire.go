package content

// Empty marshals as {} and is used for property kinds without configuration.
type Empty struct{}

// Text is the text member of a rich-text item.
type Text struct {
	Content string `json:"content"`
}

// RichText is one rich-text segment.
type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *Text  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
}

// String returns the segment's text.
func (r RichText) String() string {
	if r.Text != nil {
		return r.Text.Content
	}
	return r.PlainText
}

// TextBlock is the body of paragraph, heading and list blocks.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// CodeBlock is the body of a code block.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// Block is a child block of a page.
type Block struct {
	Object           string     `json:"object"`
	Type             string     `json:"type"`
	Paragraph        *TextBlock `json:"paragraph,omitempty"`
	Heading1         *TextBlock `json:"heading_1,omitempty"`
	Heading2         *TextBlock `json:"heading_2,omitempty"`
	Heading3         *TextBlock `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock `json:"bulleted_list_item,omitempty"`
	Code             *CodeBlock `json:"code,omitempty"`
}

// PlainText returns the concatenated text of the block.
func (b Block) PlainText() string {
	var segs []RichText
	switch {
	case b.Paragraph != nil:
		segs = b.Paragraph.RichText
	case b.Heading1 != nil:
		segs = b.Heading1.RichText
	case b.Heading2 != nil:
		segs = b.Heading2.RichText
	case b.Heading3 != nil:
		segs = b.Heading3.RichText
	case b.BulletedListItem != nil:
		segs = b.BulletedListItem.RichText
	case b.Code != nil:
		segs = b.Code.RichText
	}
	return joinText(segs)
}

// SelectValue names an option of a select or multi-select property.
type SelectValue struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue is the value of a date property.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// PropertyValue is the value of one page property. Only the member matching
// the property kind is set.
type PropertyValue struct {
	ID          string        `json:"id,omitempty"`
	Type        string        `json:"type,omitempty"`
	Title       []RichText    `json:"title,omitempty"`
	RichText    []RichText    `json:"rich_text,omitempty"`
	Select      *SelectValue  `json:"select,omitempty"`
	MultiSelect []SelectValue `json:"multi_select,omitempty"`
	Date        *DateValue    `json:"date,omitempty"`
	Number      *float64      `json:"number,omitempty"`
}

// Payload is the body of a page or record creation: typed properties plus
// optional child blocks.
type Payload struct {
	Properties map[string]PropertyValue `json:"properties"`
	Children   []Block                  `json:"children,omitempty"`
}

// OptionsSchema configures select and multi-select properties.
type OptionsSchema struct {
	Options []SelectValue `json:"options"`
}

// NumberSchema configures number properties.
type NumberSchema struct {
	Format string `json:"format"`
}

// RelationSchema configures relation properties.
type RelationSchema struct {
	DatabaseID     string `json:"database_id"`
	Type           string `json:"type"`
	SingleProperty *Empty `json:"single_property,omitempty"`
}

// PropertySchema declares one database column.
type PropertySchema struct {
	Title       *Empty          `json:"title,omitempty"`
	RichText    *Empty          `json:"rich_text,omitempty"`
	People      *Empty          `json:"people,omitempty"`
	Date        *Empty          `json:"date,omitempty"`
	Select      *OptionsSchema  `json:"select,omitempty"`
	MultiSelect *OptionsSchema  `json:"multi_select,omitempty"`
	Number      *NumberSchema   `json:"number,omitempty"`
	Relation    *RelationSchema `json:"relation,omitempty"`
}
