package dictionary

import "strings"

// MapPOS reduces JMdict part-of-speech tags to the graph's n, v, a and r.
// The first tag that maps wins; entries with none are nouns.
func MapPOS(tags []string) string {
	for _, t := range tags {
		switch {
		case t == "adj-i" || t == "adj-ix":
			return "a"
		case t == "adv" || t == "adv-to":
			return "r"
		case t == "vs" || t == "vs-s" || t == "vs-i":
			// suru nouns stand alone as nouns
			return "n"
		case strings.HasPrefix(t, "v1") || strings.HasPrefix(t, "v5") || t == "vk" || t == "vz":
			return "v"
		case strings.HasPrefix(t, "n") || t == "adj-na" || t == "adj-no" || t == "pn":
			return "n"
		}
	}
	return "n"
}

// EntryPOS is MapPOS over every sense of e in order.
func EntryPOS(e JMdictEntry) string {
	var tags []string
	for _, s := range e.Sense {
		tags = append(tags, s.PartOfSpeech...)
	}
	return MapPOS(tags)
}
