// Package classify decides whether a free-text question is about plants
// and produces short canned answers for the voice endpoint.
package classify

import (
	"fmt"
	"strings"
)

// domainKeywords is the fixed bilingual (English/Hinglish) vocabulary. A
// question is in-domain when any keyword occurs anywhere in it; plain
// substring matching, no tokenization.
var domainKeywords = []string{
	"plant", "ped", "phool", "flower", "leaf", "tree", "patti", "care",
	"health", "mitti", "soil", "water", "khaad", "fertilizer", "poda",
	"kida", "rog", "sehat", "dhup", "gamla",
}

var (
	waterTerms = []string{"water", "pani", "paani"}
	sunTerms   = []string{"sun", "dhup", "light", "roshni"}
	soilTerms  = []string{"soil", "mitti", "khaad", "fertilizer"}
)

// InDomain reports whether the text mentions anything plant-related.
func InDomain(text string) bool {
	return containsAny(text, domainKeywords)
}

// Answer applies the ordered keyword-to-answer rules: watering before
// light before soil, first match wins. Out-of-domain questions get a
// fixed deflection. lang "hi" selects the Hinglish phrasing the client
// speaks.
func Answer(query, lang string) string {
	hindi := lang == "hi"

	if !InDomain(query) {
		if hindi {
			return "Main sirf paudhon ke baare mein jaanta hoon!"
		}
		return "I can only answer questions about plants!"
	}

	switch {
	case containsAny(query, waterTerms):
		if hindi {
			return "Zyada tar paudhon ko hafte mein do baar paani dein, jab upar ki mitti sukhi lage."
		}
		return "Most plants need watering twice a week, once the topsoil feels dry."
	case containsAny(query, sunTerms):
		if hindi {
			return "Paudhe ko subah ki halki dhup mein rakhein, dopahar ki tez dhup se bachayein."
		}
		return "Give your plant gentle morning light and keep it out of harsh afternoon sun."
	case containsAny(query, soilTerms):
		if hindi {
			return "Achhi nikasi wali mitti use karein aur mahine mein ek baar khaad dein."
		}
		return "Use a well-draining potting mix and feed with fertilizer once a month."
	}

	if hindi {
		return fmt.Sprintf("Aapka sawaal '%s' note kar liya hai. Paani, dhup ya mitti ke baare mein poochhein.", query)
	}
	return fmt.Sprintf("Noted your question '%s'. Try asking about water, light, or soil.", query)
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
