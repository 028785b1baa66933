package analysis

// valence maps lowercase tokens to polarity in [-1,1]. Values follow the
// conventional pattern-lexicon weights: strong sentiment near ±0.8..1.0,
// mild sentiment near ±0.3..0.5.
var valence = map[string]float64{
	// positive
	"amazing": 0.9, "awesome": 0.9, "excellent": 1.0, "outstanding": 1.0,
	"fantastic": 0.9, "wonderful": 0.9, "perfect": 1.0, "incredible": 0.9,
	"superb": 0.9, "exceptional": 0.9, "best": 1.0, "love": 0.8, "loved": 0.8,
	"great": 0.8, "delicious": 0.8, "friendly": 0.6, "helpful": 0.6,
	"professional": 0.5, "recommend": 0.6, "recommended": 0.6, "good": 0.7,
	"nice": 0.6, "enjoyed": 0.6, "happy": 0.7, "pleased": 0.6, "satisfied": 0.6,
	"fresh": 0.4, "clean": 0.4, "fast": 0.3, "quick": 0.3, "prompt": 0.4,
	"reliable": 0.5, "honest": 0.5, "fair": 0.4, "tasty": 0.6, "polite": 0.5,
	"attentive": 0.5, "courteous": 0.5, "impressed": 0.7, "impressive": 0.7,
	"pleasant": 0.5, "fine": 0.3, "solid": 0.3, "decent": 0.3, "okay": 0.2,
	"ok": 0.2, "works": 0.2, "worked": 0.2, "thanks": 0.3, "thank": 0.3,

	// negative
	"terrible": -1.0, "horrible": -1.0, "awful": -1.0, "worst": -1.0,
	"disgusting": -0.9, "atrocious": -0.9, "dreadful": -0.9, "appalling": -0.9,
	"bad": -0.7, "poor": -0.6, "hate": -0.8, "hated": -0.8, "rude": -0.7,
	"slow": -0.4, "dirty": -0.6, "filthy": -0.8, "cold": -0.3, "stale": -0.5,
	"overpriced": -0.5, "expensive": -0.3, "scam": -0.9, "fraud": -0.9,
	"ripoff": -0.8, "broken": -0.6, "useless": -0.7, "unhelpful": -0.6,
	"unprofessional": -0.6, "disappointed": -0.6, "disappointing": -0.6,
	"avoid": -0.6, "waste": -0.6, "wasted": -0.6, "wrong": -0.5,
	"mediocre": -0.4, "bland": -0.4, "late": -0.3, "delayed": -0.3,
	"ignored": -0.5, "refund": -0.3, "complaint": -0.4, "angry": -0.6,
	"upset": -0.5, "unacceptable": -0.8, "nightmare": -0.8, "liar": -0.8,
	"lied": -0.7, "dishonest": -0.7, "damaged": -0.5, "defective": -0.6,
	"cancelled": -0.3, "unresponsive": -0.5, "incompetent": -0.7,
}

// negators flip the polarity of the sentiment word that follows them.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"nothing": {}, "nowhere": {}, "hardly": {}, "barely": {},
	"cant": {}, "cannot": {}, "wont": {}, "dont": {}, "didnt": {},
	"doesnt": {}, "isnt": {}, "wasnt": {}, "werent": {}, "couldnt": {},
	"wouldnt": {}, "shouldnt": {},
}

// boosters scale the sentiment word that follows them.
var boosters = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "absolutely": 1.5,
	"incredibly": 1.5, "so": 1.2, "totally": 1.4, "completely": 1.4,
	"quite": 1.1, "truly": 1.3, "super": 1.3,
	"somewhat": 0.7, "slightly": 0.6, "fairly": 0.8, "kinda": 0.7,
	"kind": 0.7, "bit": 0.7, "little": 0.7,
}
