package keyword

// stopWords are dropped before ranking job keywords. Besides English function
// words it holds vocabulary every job posting uses and no resume should be
// judged on ("experience", "team", "role").
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "all": {},
	"also": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"both": {}, "but": {}, "by": {}, "can": {}, "could": {}, "did": {}, "do": {}, "does": {},
	"doing": {}, "down": {}, "during": {}, "each": {}, "etc": {}, "few": {}, "for": {},
	"from": {}, "further": {}, "had": {}, "has": {}, "have": {}, "having": {}, "he": {},
	"her": {}, "here": {}, "hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "itself": {}, "just": {}, "me": {},
	"more": {}, "most": {}, "must": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"ours": {}, "out": {}, "over": {}, "own": {}, "per": {}, "same": {}, "she": {},
	"should": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "theirs": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "too": {}, "under": {}, "until": {},
	"up": {}, "us": {}, "very": {}, "via": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "who": {}, "whom": {}, "why": {},
	"will": {}, "with": {}, "within": {}, "would": {}, "you": {}, "your": {}, "yours": {},

	// Job-posting boilerplate.
	"ability": {}, "able": {}, "applicant": {}, "applicants": {}, "apply": {}, "candidate": {},
	"candidates": {}, "company": {}, "description": {}, "experience": {}, "good": {},
	"help": {}, "ideal": {}, "including": {}, "job": {}, "join": {}, "looking": {},
	"new": {}, "plus": {}, "preferred": {}, "required": {}, "requirements": {},
	"responsibilities": {}, "role": {}, "seeking": {}, "skills": {}, "strong": {},
	"team": {}, "using": {}, "well": {}, "work": {}, "working": {}, "year": {}, "years": {},
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
