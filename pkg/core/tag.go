package core

// Tag is the category label of a note. It drives the note's default color.
type Tag string

const (
	TagScene     Tag = "Scene"
	TagCharacter Tag = "Character"
	TagTwist     Tag = "Twist"
	TagWorld     Tag = "World"
)

// DefaultTag is the tag given to notes created interactively.
const DefaultTag = TagScene

// PaletteEntry binds a tag to its default color.
type PaletteEntry struct {
	Tag   Tag
	Color Color
}

// Palette is an immutable, ordered tag -> default color table.
// The first entry is the palette's default tag.
type Palette struct {
	entries []PaletteEntry
	index   map[Tag]Color
}

// NewPalette builds a palette from entries. Later duplicates of a tag are ignored.
// An empty entry list yields the default palette.
func NewPalette(entries ...PaletteEntry) Palette {
	if len(entries) == 0 {
		return DefaultPalette()
	}
	p := Palette{index: make(map[Tag]Color, len(entries))}
	for _, e := range entries {
		if _, dup := p.index[e.Tag]; dup {
			continue
		}
		p.index[e.Tag] = e.Color
		p.entries = append(p.entries, e)
	}
	return p
}

// DefaultPalette returns the standard story palette.
func DefaultPalette() Palette {
	return NewPalette(
		PaletteEntry{Tag: TagScene, Color: MustParseColor("#fff59d")},
		PaletteEntry{Tag: TagCharacter, Color: MustParseColor("#90caf9")},
		PaletteEntry{Tag: TagTwist, Color: MustParseColor("#f48fb1")},
		PaletteEntry{Tag: TagWorld, Color: MustParseColor("#a5d6a7")},
	)
}

// Has reports whether tag is a member of the palette.
func (p Palette) Has(tag Tag) bool {
	_, ok := p.index[tag]
	return ok
}

// ColorFor returns the default color of tag.
func (p Palette) ColorFor(tag Tag) (Color, error) {
	c, ok := p.index[tag]
	if !ok {
		return Color{}, &InvalidTagError{Tag: tag}
	}
	return c, nil
}

// Tags lists the palette's tags in declaration order.
func (p Palette) Tags() []Tag {
	tags := make([]Tag, 0, len(p.entries))
	for _, e := range p.entries {
		tags = append(tags, e.Tag)
	}
	return tags
}

// Entries returns a copy of the palette table.
func (p Palette) Entries() []PaletteEntry {
	out := make([]PaletteEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Default returns the palette's default tag: TagScene when present, else the first entry.
func (p Palette) Default() Tag {
	if p.Has(DefaultTag) || len(p.entries) == 0 {
		return DefaultTag
	}
	return p.entries[0].Tag
}
