package lexnet

// Word is a surface lemma in one language.
type Word struct {
	ID    int64
	Lang  string
	Lemma string
	Pron  string
	POS   string
}

// Synset is a concept node. Name is either human-assigned or, for anonymous
// concepts, equal to ID.
type Synset struct {
	ID   string
	POS  string
	Name string
	Src  string
}

// SynsetDef is a gloss or example sentence attached to a concept. Name is
// denormalized from the owning Synset when read.
type SynsetDef struct {
	Synset string
	Name   string
	Lang   string
	Gloss  string
	SID    string
}

// SynLink is a directed, labeled edge from Synset1 to Synset2.
type SynLink struct {
	Synset1 string
	Synset2 string
	Link    string
	SID     string
}

// Sense records that a Word expresses a Synset.
type Sense struct {
	Synset string
	WordID int64
	Lang   string
	Rank   string
	LexID  int64
	Freq   int64
	Src    string
}

// Info is one row of a traversal result: the entity, what it hangs off, and
// how it is related. Kind is "synset", "word" or a link label.
type Info struct {
	Parent string `yaml:"parent"`
	Kind   string `yaml:"kind"`
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	POS    string `yaml:"pos"`
	Gloss  string `yaml:"gloss,omitempty"`
}

// PatternRow is a phrase dictionary row projected from the graph.
type PatternRow struct {
	Category string
	Word     string
	Concept  string
}

// WordSynset pairs a lemma with the name of one concept it expresses.
type WordSynset struct {
	Lemma  string
	Synset string
}

const (
	KindSynset = "synset"
	KindWord   = "word"

	LinkIsa   = "isa"
	LinkHasa  = "hasa"
	LinkThen  = "then"
	LinkFrame = "frame"
	LinkNext  = "next"
	LinkIn    = "in"

	DefaultLang = "jpn"
	DefaultPOS  = "n"
	DefaultSrc  = "snark"

	posFrame    = "f"
	posSentence = "s"
)
