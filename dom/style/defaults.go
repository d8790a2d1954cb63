package style

import (
	"sync"

	"golang.org/x/net/html"
)

// Tag selects the computation a property needs beyond generic unit
// absolutization. Tags are assigned once, when the property table is built.
type Tag uint8

// Property tags.
const (
	TagGeneric Tag = iota
	TagCustom
	TagDisplay
	TagPosition
	TagFloat
	TagFontSize
	TagFontFamily
	TagLineHeight
	TagColor      // the property 'color'
	TagColorValue // all other properties taking a color
	TagBorderWidth
	TagBorderStyle
	TagBackgroundRepeat
	TagWritingMode
)

// Family is the value family of a property, used for validating values
// after substitution.
type Family uint8

// Value families.
const (
	AnyFamily Family = iota
	LengthFamily
	NumberFamily
	ColorFamily
	KeywordFamily
	ImageFamily
)

// Info collects the static properties of a standard longhand.
type Info struct {
	Name       string
	Tag        Tag
	Family     Family
	Inherited  bool
	Initial    string
	Group      string
	Idents     []string // legal identifiers, nil if unrestricted
	Shorthands []string
}

var borderStyles = []string{"none", "hidden", "dotted", "dashed", "solid", "double",
	"groove", "ridge", "inset", "outset"}

var fontSizeKeywords = []string{"xx-small", "x-small", "small", "medium", "large",
	"x-large", "xx-large", "xxx-large", "larger", "smaller", "math"}

var standardTable []Info

func init() {
	// helpers to keep the table compact
	length := func(name, initial, group string, idents ...string) Info {
		return Info{Name: name, Family: LengthFamily, Initial: initial, Group: group, Idents: idents}
	}
	keyword := func(name, initial, group string, idents ...string) Info {
		return Info{Name: name, Family: KeywordFamily, Initial: initial, Group: group, Idents: idents}
	}
	colored := func(name, group string) Info {
		return Info{Name: name, Tag: TagColorValue, Family: ColorFamily, Initial: "currentcolor", Group: group}
	}
	inherit := func(info Info) Info {
		info.Inherited = true
		return info
	}
	tag := func(t Tag, info Info) Info {
		info.Tag = t
		return info
	}
	short := func(info Info, shorthands ...string) Info {
		info.Shorthands = shorthands
		return info
	}
	standardTable = []Info{
		// display and positioning
		tag(TagDisplay, keyword("display", "inline", PGDisplay, "inline", "block", "inline-block",
			"list-item", "run-in", "flex", "inline-flex", "grid", "inline-grid", "flow-root",
			"table", "inline-table", "table-row-group", "table-header-group",
			"table-footer-group", "table-row", "table-cell", "table-column-group",
			"table-column", "table-caption", "contents", "none", "ruby", "ruby-text")),
		tag(TagPosition, keyword("position", "static", PGDisplay, "static", "relative",
			"absolute", "fixed", "sticky")),
		tag(TagFloat, keyword("float", "none", PGDisplay, "none", "left", "right",
			"inline-start", "inline-end")),
		keyword("clear", "none", PGDisplay, "none", "left", "right", "both", "inline-start", "inline-end"),
		inherit(keyword("visibility", "visible", PGDisplay, "visible", "hidden", "collapse")),
		short(keyword("overflow-x", "visible", PGDisplay, "visible", "hidden", "clip", "scroll", "auto"), "overflow"),
		short(keyword("overflow-y", "visible", PGDisplay, "visible", "hidden", "clip", "scroll", "auto"), "overflow"),
		{Name: "z-index", Family: NumberFamily, Initial: "auto", Group: PGDisplay, Idents: []string{"auto"}},
		{Name: "opacity", Family: NumberFamily, Initial: "1", Group: PGDisplay},
		short(length("top", "auto", PGDisplay, "auto"), "inset"),
		short(length("right", "auto", PGDisplay, "auto"), "inset"),
		short(length("bottom", "auto", PGDisplay, "auto"), "inset"),
		short(length("left", "auto", PGDisplay, "auto"), "inset"),
		length("vertical-align", "baseline", PGDisplay, "baseline", "sub", "super", "text-top",
			"text-bottom", "middle", "top", "bottom"),
		keyword("box-sizing", "content-box", PGDisplay, "content-box", "border-box"),
		keyword("unicode-bidi", "normal", PGText, "normal", "embed", "isolate", "bidi-override",
			"isolate-override", "plaintext"),
		// regions
		keyword("flow-into", "none", PGRegion),
		keyword("flow-from", "none", PGRegion),
		// dimensions
		length("width", "auto", PGDimension, "auto", "min-content", "max-content", "fit-content"),
		length("height", "auto", PGDimension, "auto", "min-content", "max-content", "fit-content"),
		length("min-width", "auto", PGDimension, "auto", "min-content", "max-content", "fit-content"),
		length("min-height", "auto", PGDimension, "auto", "min-content", "max-content", "fit-content"),
		length("max-width", "none", PGDimension, "none", "min-content", "max-content", "fit-content"),
		length("max-height", "none", PGDimension, "none", "min-content", "max-content", "fit-content"),
		// margins and padding
		short(length("margin-top", "0", PGMargins, "auto"), "margin"),
		short(length("margin-right", "0", PGMargins, "auto"), "margin"),
		short(length("margin-bottom", "0", PGMargins, "auto"), "margin"),
		short(length("margin-left", "0", PGMargins, "auto"), "margin"),
		short(length("padding-top", "0", PGPadding), "padding"),
		short(length("padding-right", "0", PGPadding), "padding"),
		short(length("padding-bottom", "0", PGPadding), "padding"),
		short(length("padding-left", "0", PGPadding), "padding"),
		// borders
		short(tag(TagBorderWidth, length("border-top-width", "medium", PGBorder, "thin", "medium", "thick")), "border-width"),
		short(tag(TagBorderWidth, length("border-right-width", "medium", PGBorder, "thin", "medium", "thick")), "border-width"),
		short(tag(TagBorderWidth, length("border-bottom-width", "medium", PGBorder, "thin", "medium", "thick")), "border-width"),
		short(tag(TagBorderWidth, length("border-left-width", "medium", PGBorder, "thin", "medium", "thick")), "border-width"),
		short(tag(TagBorderStyle, keyword("border-top-style", "none", PGBorder, borderStyles...)), "border-style"),
		short(tag(TagBorderStyle, keyword("border-right-style", "none", PGBorder, borderStyles...)), "border-style"),
		short(tag(TagBorderStyle, keyword("border-bottom-style", "none", PGBorder, borderStyles...)), "border-style"),
		short(tag(TagBorderStyle, keyword("border-left-style", "none", PGBorder, borderStyles...)), "border-style"),
		short(colored("border-top-color", PGBorder), "border-color"),
		short(colored("border-right-color", PGBorder), "border-color"),
		short(colored("border-bottom-color", PGBorder), "border-color"),
		short(colored("border-left-color", PGBorder), "border-color"),
		short(length("border-top-left-radius", "0", PGBorder), "border-radius"),
		short(length("border-top-right-radius", "0", PGBorder), "border-radius"),
		short(length("border-bottom-right-radius", "0", PGBorder), "border-radius"),
		short(length("border-bottom-left-radius", "0", PGBorder), "border-radius"),
		inherit(keyword("border-collapse", "separate", PGBorder, "separate", "collapse")),
		inherit(length("border-spacing", "0", PGBorder)),
		tag(TagBorderWidth, length("outline-width", "medium", PGBorder, "thin", "medium", "thick")),
		tag(TagBorderStyle, keyword("outline-style", "none", PGBorder, append([]string{"auto"}, borderStyles...)...)),
		colored("outline-color", PGBorder),
		length("outline-offset", "0", PGBorder),
		tag(TagBorderWidth, length("column-rule-width", "medium", PGBorder, "thin", "medium", "thick")),
		tag(TagBorderStyle, keyword("column-rule-style", "none", PGBorder, borderStyles...)),
		colored("column-rule-color", PGBorder),
		length("column-width", "auto", PGDimension, "auto"),
		length("column-gap", "normal", PGDimension, "normal"),
		length("row-gap", "normal", PGDimension, "normal"),
		// colors and backgrounds
		inherit(tag(TagColor, Info{Name: "color", Family: ColorFamily, Initial: "black", Group: PGColor})),
		{Name: "background-color", Tag: TagColorValue, Family: ColorFamily, Initial: "transparent", Group: PGBackground},
		{Name: "background-image", Family: ImageFamily, Initial: "none", Group: PGBackground, Idents: []string{"none"}},
		tag(TagBackgroundRepeat, keyword("background-repeat", "repeat", PGBackground, "repeat",
			"repeat-x", "repeat-y", "no-repeat", "space", "round")),
		keyword("background-attachment", "scroll", PGBackground, "scroll", "fixed", "local"),
		length("background-position", "0% 0%", PGBackground, "left", "center", "right", "top", "bottom"),
		length("background-size", "auto", PGBackground, "auto", "cover", "contain"),
		keyword("background-clip", "border-box", PGBackground, "border-box", "padding-box", "content-box", "text"),
		keyword("background-origin", "padding-box", PGBackground, "border-box", "padding-box", "content-box"),
		colored("text-decoration-color", PGText),
		keyword("text-decoration-line", "none", PGText),
		keyword("text-decoration-style", "solid", PGText, "solid", "double", "dotted", "dashed", "wavy"),
		// fonts
		inherit(tag(TagFontFamily, Info{Name: "font-family", Initial: "serif", Group: PGFont})),
		inherit(tag(TagFontSize, length("font-size", "medium", PGFont, fontSizeKeywords...))),
		inherit(keyword("font-style", "normal", PGFont, "normal", "italic", "oblique")),
		inherit(keyword("font-variant", "normal", PGFont, "normal", "small-caps")),
		inherit(Info{Name: "font-weight", Family: NumberFamily, Initial: "normal", Group: PGFont,
			Idents: []string{"normal", "bold", "bolder", "lighter"}}),
		inherit(keyword("font-stretch", "normal", PGFont)),
		inherit(Info{Name: "font-size-adjust", Family: NumberFamily, Initial: "none", Group: PGFont, Idents: []string{"none"}}),
		inherit(tag(TagLineHeight, length("line-height", "normal", PGFont, "normal"))),
		// text
		inherit(tag(TagWritingMode, keyword("writing-mode", "horizontal-tb", PGText, "horizontal-tb",
			"vertical-rl", "vertical-lr", "sideways-rl", "sideways-lr"))),
		inherit(keyword("direction", "ltr", PGText, "ltr", "rtl")),
		inherit(keyword("text-align", "start", PGText, "start", "end", "left", "right", "center",
			"justify", "match-parent")),
		inherit(length("text-indent", "0", PGText)),
		inherit(keyword("text-transform", "none", PGText, "none", "capitalize", "uppercase",
			"lowercase", "full-width")),
		inherit(keyword("white-space", "normal", PGText, "normal", "pre", "nowrap", "pre-wrap",
			"pre-line", "break-spaces")),
		inherit(length("word-spacing", "normal", PGText, "normal")),
		inherit(length("letter-spacing", "normal", PGText, "normal")),
		inherit(keyword("word-break", "normal", PGText, "normal", "break-all", "keep-all", "break-word")),
		inherit(keyword("overflow-wrap", "normal", PGText, "normal", "break-word", "anywhere")),
		inherit(keyword("word-wrap", "normal", PGText, "normal", "break-word", "anywhere")),
		inherit(keyword("hyphens", "manual", PGText, "none", "manual", "auto")),
		inherit(Info{Name: "tab-size", Family: LengthFamily, Initial: "8", Group: PGText}),
		inherit(Info{Name: "quotes", Initial: "auto", Group: PGText}),
		inherit(Info{Name: "orphans", Family: NumberFamily, Initial: "2", Group: PGText}),
		inherit(Info{Name: "widows", Family: NumberFamily, Initial: "2", Group: PGText}),
		{Name: "content", Initial: "normal", Group: PGText},
		// lists and tables
		inherit(keyword("list-style-type", "disc", PGList)),
		inherit(keyword("list-style-position", "outside", PGList, "inside", "outside")),
		inherit(Info{Name: "list-style-image", Family: ImageFamily, Initial: "none", Group: PGList, Idents: []string{"none"}}),
		inherit(keyword("caption-side", "top", PGList, "top", "bottom")),
		inherit(keyword("empty-cells", "show", PGList, "show", "hide")),
		// user interface and aural
		inherit(Info{Name: "cursor", Initial: "auto", Group: PGUI}),
		{Name: "cue-before", Initial: "none", Group: PGAural},
		{Name: "cue-after", Initial: "none", Group: PGAural},
		{Name: "play-during", Initial: "auto", Group: PGAural},
	}
}

var standardOnce sync.Once
var standardMap map[string]*Info
var shorthandMap map[string][]string

// standardProperties returns the table of standard longhands, indexed by name.
func standardProperties() map[string]*Info {
	standardOnce.Do(func() {
		standardMap = make(map[string]*Info, len(standardTable))
		shorthandMap = make(map[string][]string)
		for i := range standardTable {
			info := &standardTable[i]
			standardMap[info.Name] = info
			for _, sh := range info.Shorthands {
				shorthandMap[sh] = append(shorthandMap[sh], info.Name)
			}
		}
	})
	return standardMap
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "title", "meta", "link":
		return "none"
	case "html", "aside", "body", "div", "h1", "h2", "h3",
		"h4", "h5", "h6", "ol", "p", "section", "article", "nav",
		"header", "footer", "main", "ul", "blockquote", "pre", "form":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "i", "b", "span", "strong", "em", "a", "code", "img":
		return "inline"
	}
	tracer().Infof("unknown HTML element %s/%d will be set to display: inline",
		node.Data, node.Type)
	return "inline"
}
