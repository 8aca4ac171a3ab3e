package encode

// Mode is the output display mode of the serialized text mirror.
type Mode int

const (
	Formatted Mode = iota
	Wire
)

func (m Mode) String() string {
	if m == Wire {
		return "wire"
	}
	return "formatted"
}

// Render serializes v according to mode and indent width.
func Render(v any, m Mode, indentWidth int) string {
	if m == Wire {
		return Minify(v)
	}
	return Format(v, indentWidth)
}
