package output

// GlyphSet holds the four strings a tree line is assembled from: the two
// connectors in front of an entry name and the two gutter paddings drawn for
// ancestor levels.
type GlyphSet struct {
	BranchConnector string
	LastConnector   string
	BranchPadding   string
	LastPadding     string
}

// UnicodeGlyphs draws the tree with box-drawing characters.
var UnicodeGlyphs = GlyphSet{
	BranchConnector: "├── ",
	LastConnector:   "└── ",
	BranchPadding:   "│   ",
	LastPadding:     "    ",
}

// ASCIIGlyphs draws the tree with plain ASCII characters.
var ASCIIGlyphs = GlyphSet{
	BranchConnector: "|-- ",
	LastConnector:   "`-- ",
	BranchPadding:   "|   ",
	LastPadding:     "    ",
}
