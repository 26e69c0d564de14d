package lexnet

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// SynsetInfo returns s itself (all its glosses joined with ",") followed by
// every word expressing it.
func (g *Graph) SynsetInfo(ctx context.Context, s Synset, parent string) ([]Info, error) {
	defs, err := g.SynsetDefs(ctx, s, DefaultLang)
	if err != nil {
		return nil, err
	}
	glosses := make([]string, 0, len(defs))
	for _, d := range defs {
		glosses = append(glosses, d.Gloss)
	}
	info := []Info{{Parent: parent, Kind: KindSynset, ID: s.ID, Name: s.Name, POS: s.POS, Gloss: strings.Join(glosses, ",")}}

	words, err := g.WordsBySense(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		info = append(info, Info{Parent: s.ID, Kind: KindWord, ID: strconv.FormatInt(w.ID, 10), Name: w.Lemma, POS: w.POS})
	}
	return info, nil
}

// SynLinkInfo returns, for each edge leaving s, the edge row followed by the
// target's SynsetInfo. Only the forward side is consulted.
func (g *Graph) SynLinkInfo(ctx context.Context, s Synset) ([]Info, error) {
	links, err := g.SynLinks(ctx, s, "")
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, l := range links {
		t, ok, err := g.Synset(ctx, l.Synset2)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		info = append(info, Info{Parent: s.ID, Kind: l.Link, ID: t.ID, Name: t.Name, POS: t.POS})
		more, err := g.SynsetInfo(ctx, t, s.ID)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// WordInfo returns the SynsetInfo of every concept w expresses.
func (g *Graph) WordInfo(ctx context.Context, w Word) ([]Info, error) {
	synsets, err := g.Synsets(ctx, w)
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, s := range synsets {
		more, err := g.SynsetInfo(ctx, s, "")
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// WordLinkInfo returns the SynLinkInfo of every concept w expresses.
func (g *Graph) WordLinkInfo(ctx context.Context, w Word) ([]Info, error) {
	synsets, err := g.Synsets(ctx, w)
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, s := range synsets {
		more, err := g.SynLinkInfo(ctx, s)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// WordInfoByLemma returns the synonym neighborhood of every Word spelled lemma.
func (g *Graph) WordInfoByLemma(ctx context.Context, lemma string) ([]Info, error) {
	words, err := g.Words(ctx, lemma, "")
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, w := range words {
		more, err := g.WordInfo(ctx, w)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// WordLinkInfoByLemma returns the related concepts of every Word spelled lemma.
func (g *Graph) WordLinkInfoByLemma(ctx context.Context, lemma string) ([]Info, error) {
	words, err := g.Words(ctx, lemma, "")
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, w := range words {
		more, err := g.WordLinkInfo(ctx, w)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// SynLinkInfoByName returns the related concepts of the concept named name.
func (g *Graph) SynLinkInfoByName(ctx context.Context, name string) ([]Info, error) {
	synsets, err := g.SynsetsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, s := range synsets {
		more, err := g.SynLinkInfo(ctx, s)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
	}
	return info, nil
}

// SynLinkNextByName replays the "next" chain starting at the concept named
// name: the start concept's SynsetInfo, then for each hop the edge row and the
// successor's SynsetInfo, until a concept has no outgoing "next" edge.
// A concept already visited ends the walk, so a cyclic chain is replayed once.
func (g *Graph) SynLinkNextByName(ctx context.Context, name string) ([]Info, error) {
	synsets, err := g.SynsetsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	var info []Info
	for _, s := range synsets {
		head, err := g.SynsetInfo(ctx, s, "")
		if err != nil {
			return nil, err
		}
		info = append(info, head...)
		seen := map[string]bool{s.ID: true}
		if info, err = g.appendNext(ctx, info, s, seen); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func (g *Graph) appendNext(ctx context.Context, info []Info, s Synset, seen map[string]bool) ([]Info, error) {
	links, err := g.SynLinks(ctx, s, LinkNext)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if seen[l.Synset2] {
			continue
		}
		t, ok, err := g.Synset(ctx, l.Synset2)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		seen[t.ID] = true
		info = append(info, Info{Parent: s.ID, Kind: LinkNext, ID: t.ID, Name: t.Name, POS: t.POS})
		more, err := g.SynsetInfo(ctx, t, s.ID)
		if err != nil {
			return nil, err
		}
		info = append(info, more...)
		if info, err = g.appendNext(ctx, info, t, seen); err != nil {
			return nil, err
		}
	}
	return info, nil
}

const imagenetURLs = "http://www.image-net.org/api/text/imagenet.synset.geturls?wnid="

// wordnetID matches WordNet-style synset ids such as "02084071-n".
var wordnetID = regexp.MustCompile(`^(\d+)-([a-z])$`)

// ImagenetURIs builds one ImageNet image-list URI per (word, concept) pair
// for lemma. WordNet ids "NNNNNNNN-p" become ImageNet wnids "pNNNNNNNN";
// other ids are used as-is. No request is made.
func (g *Graph) ImagenetURIs(ctx context.Context, lemma string) ([]string, error) {
	words, err := g.Words(ctx, lemma, "")
	if err != nil {
		return nil, err
	}
	var uris []string
	for _, w := range words {
		synsets, err := g.Synsets(ctx, w)
		if err != nil {
			return nil, err
		}
		for _, s := range synsets {
			wnid := s.ID
			if m := wordnetID.FindStringSubmatch(s.ID); m != nil {
				wnid = m[2] + m[1]
			}
			uris = append(uris, imagenetURLs+wnid)
		}
	}
	return uris, nil
}
