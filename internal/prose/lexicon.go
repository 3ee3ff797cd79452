package prose

import (
	"regexp"
	"strings"
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var articles = set("the", "a", "an")

// Capitalised words that open sentences without naming anyone.
var sentenceStarters = set(
	"the", "a", "an", "when", "after", "before", "then", "but", "and", "or", "so", "if",
	"as", "at", "in", "on", "of", "for", "with", "without", "although", "though", "while",
	"once", "now", "later", "still", "yet", "this", "that", "these", "those", "there",
	"here", "what", "why", "how", "where", "who", "whom", "which", "maybe", "perhaps",
	"suddenly", "finally", "meanwhile", "outside", "inside", "somewhere", "no", "yes",
	"oh", "ah", "well", "not", "every", "each", "all", "some", "by", "from", "into",
	"until", "since", "because", "even", "just", "only", "again", "soon", "today",
	"tonight", "tomorrow", "yesterday", "above", "below", "beyond", "behind", "across",
	"let", "don't", "didn't", "can't", "won't", "i", "i'm", "i'd", "i'll", "we", "you",
	"my", "our", "your", "me", "us", "chapter", "prologue", "epilogue", "part", "book",
	"mr", "mrs", "ms", "dr", "sir", "lady", "lord", "god", "okay", "ok", "please", "thanks",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december", "hello", "hi", "hey", "sorry",
	"nothing", "everything", "someone", "something", "everyone", "anyone", "nobody",
	"never", "always", "sometimes", "instead", "besides", "during", "around", "over",
	"under", "through", "upon", "like", "about", "against", "between",
	"slowly", "quickly", "quietly", "carefully", "gently", "softly", "silently", "briefly",
	"eventually", "apparently", "clearly", "certainly", "honestly", "actually", "obviously",
	"luckily", "unfortunately", "fortunately", "hopefully", "usually", "normally",
	"occasionally", "immediately", "gradually", "nearly", "barely", "hardly", "really",
	"was", "were", "is", "are", "did", "do", "does", "had", "has", "have", "could",
	"would", "should", "can", "must", "might", "shall",
)

var pronounCategory = map[string]string{
	"he": "character", "she": "character", "him": "character", "her": "character",
	"his": "character", "hers": "character", "they": "character", "them": "character",
	"their": "character", "theirs": "character", "it": "object", "its": "object",
}

var genericPronouns = set(
	"someone", "anyone", "everyone", "no one", "nobody", "somebody", "anybody",
	"everybody", "something", "anything", "everything", "nothing",
)

// Nouns whose definite form needs no introduction.
var selfEvidentNouns = set(
	"room", "sun", "moon", "sky", "stars", "door", "doors", "window", "windows", "floor",
	"wall", "walls", "ceiling", "ground", "street", "road", "world", "morning", "night",
	"day", "evening", "afternoon", "dawn", "dusk", "air", "wind", "rain", "snow", "sea",
	"ocean", "city", "town", "house", "table", "chair", "bed", "light", "dark", "darkness",
	"silence", "time", "way", "end", "moment", "rest", "others", "same", "first", "last",
	"next", "other", "kitchen", "hallway", "hall", "stairs", "car", "phone", "weather",
	"crowd", "noise", "smell", "sound", "truth", "past", "future", "present", "middle",
	"edge", "corner", "top", "bottom", "side", "front", "back", "water", "fire", "heat",
	"cold", "hour", "minute", "year", "week", "season", "summer", "winter", "spring",
	"autumn", "fall", "horizon", "trees", "grass", "earth", "fact", "idea", "answer",
	"question", "kind", "sort", "lot", "whole", "word", "words", "voice", "only", "very",
	"most", "best", "worst", "few", "many", "one", "two", "three", "entire", "rest",
)

var characterNouns = set(
	"man", "woman", "boy", "girl", "child", "stranger", "killer", "murderer", "detective",
	"doctor", "nurse", "officer", "captain", "king", "queen", "prince", "princess", "heir",
	"widow", "priest", "soldier", "guard", "thief", "witness", "victim", "suspect",
	"inspector", "sergeant", "colonel", "general", "driver", "boss", "father", "mother",
	"brother", "sister", "son", "daughter", "husband", "wife", "twin", "baby", "old man",
	"girlfriend", "boyfriend", "lawyer", "judge", "teacher", "professor", "agent", "spy",
	"traitor", "hunter", "maid", "butler", "servant", "messenger", "pilot", "sheriff",
)

var locationNouns = set(
	"station", "village", "castle", "tower", "manor", "estate", "farm", "harbor",
	"harbour", "dock", "docks", "warehouse", "office", "church", "chapel", "temple",
	"palace", "camp", "base", "ship", "island", "forest", "woods", "mountain", "valley",
	"river", "lake", "bridge", "cellar", "basement", "attic", "library", "hospital",
	"school", "prison", "cell", "bar", "tavern", "inn", "hotel", "motel", "apartment",
	"cabin", "cottage", "mine", "cave", "lab", "laboratory", "compound", "border",
)

var eventNouns = set(
	"accident", "murder", "war", "wedding", "funeral", "attack", "crash", "incident",
	"trial", "storm", "fire", "explosion", "battle", "raid", "heist", "party", "meeting",
	"ceremony", "election", "flood", "riot", "siege", "escape", "disappearance", "fight",
	"robbery", "kidnapping", "invasion", "massacre", "crisis", "divorce", "birth",
)

var conceptNouns = set(
	"plan", "secret", "deal", "promise", "prophecy", "curse", "rule", "rules", "law",
	"debt", "mission", "contract", "bargain", "oath", "vow", "treaty", "agreement",
	"code", "lie", "bet", "scheme", "order", "orders", "pact", "legacy", "inheritance",
)

var kinNouns = set(
	"father", "mother", "brother", "sister", "son", "daughter", "husband", "wife",
	"partner", "lover", "killer", "twin", "uncle", "aunt", "cousin", "fiance", "fiancee",
	"grandfather", "grandmother", "child", "heir", "murderer",
)

// ActionVerbPattern matches action verbs used for action density.
var ActionVerbPattern = regexp.MustCompile(`(?i)\b(ran|run|runs|running|grabbed|grabs|struck|strikes|hit|fired|shot|shoots|jumped|leapt|leaped|fell|screamed|slammed|chased|fought|punched|kicked|lunged|raced|sprinted|dodged|crashed|exploded|burst|smashed|threw|pulled|pushed|dragged|stabbed|swung|charged|fled|escaped|attacked|shoved|yanked|bolted|ducked|tackled|seized|hurled|scrambled|sprang|dove|dived|slashed|ripped|tore)\b`)

func has(m map[string]struct{}, w string) bool {
	_, ok := m[strings.ToLower(w)]
	return ok
}

func IsArticle(w string) bool         { return has(articles, w) }
func IsSentenceStarter(w string) bool { return has(sentenceStarters, w) }
func IsGenericPronoun(w string) bool  { return has(genericPronouns, w) }
func IsSelfEvident(w string) bool     { return has(selfEvidentNouns, w) }
func IsKinNoun(w string) bool         { return has(kinNouns, w) }

// IsPronoun reports whether w is one of the personal pronouns the detector
// treats as context-dependent.
func IsPronoun(w string) bool {
	_, ok := pronounCategory[strings.ToLower(w)]
	return ok
}

// PronounCategory returns "character" or "object" for a personal pronoun.
func PronounCategory(w string) string {
	return pronounCategory[strings.ToLower(w)]
}

// NounCategory classifies a common noun. Unknown nouns are objects.
func NounCategory(noun string) string {
	switch {
	case has(characterNouns, noun):
		return "character"
	case has(locationNouns, noun):
		return "location"
	case has(eventNouns, noun):
		return "event"
	case has(conceptNouns, noun):
		return "concept"
	default:
		return "object"
	}
}

// CountActionVerbs counts action verb matches sentence by sentence.
func CountActionVerbs(text string) int {
	n := 0
	for _, s := range Sentences(text) {
		n += len(ActionVerbPattern.FindAllStringIndex(s.Text, -1))
	}
	return n
}
