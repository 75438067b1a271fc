package typo

// qwertyNeighbors maps each key to the keys physically adjacent to it on a
// standard QWERTY layout.
var qwertyNeighbors = map[byte]string{
	'q': "wa", 'w': "qeas", 'e': "wrsd", 'r': "etdf", 't': "ryfg",
	'y': "tugh", 'u': "yihj", 'i': "uojk", 'o': "ipkl", 'p': "ol",
	'a': "qwsz", 's': "wedxza", 'd': "erfcxs", 'f': "rtgvcd",
	'g': "tyhbvf", 'h': "yujnbg", 'j': "uikmnh", 'k': "iolmj",
	'l': "opk", 'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb",
	'b': "vghn", 'n': "bhjm", 'm': "njk",
	'1': "2q", '2': "13qw", '3': "24we", '4': "35er", '5': "46rt",
	'6': "57ty", '7': "68yu", '8': "79ui", '9': "80io", '0': "9op",
}

// isKeyboardAdjacent reports whether two keys neighbor each other on QWERTY.
func isKeyboardAdjacent(a, b byte) bool {
	neighbors, ok := qwertyNeighbors[a]
	if !ok {
		return false
	}
	for i := 0; i < len(neighbors); i++ {
		if neighbors[i] == b {
			return true
		}
	}
	return false
}

// isKeyboardVariant reports whether word could be a fat-finger rendering of
// candidate: lengths differ by at most one, and at most one character pair
// differs with the differing pair keyboard-adjacent.
func isKeyboardVariant(word, candidate string) bool {
	if word == candidate || abs(len(word)-len(candidate)) > 1 {
		return false
	}
	if len(word) == len(candidate) {
		diffs := 0
		for i := 0; i < len(word); i++ {
			if word[i] != candidate[i] {
				diffs++
				if diffs > 1 || !isKeyboardAdjacent(word[i], candidate[i]) {
					return false
				}
			}
		}
		return diffs == 1
	}

	// One insertion/deletion: the extra character must neighbor the key
	// beside it, the shared characters must line up exactly.
	long, short := word, candidate
	if len(long) < len(short) {
		long, short = short, long
	}
	for i := 0; i <= len(short); i++ {
		if long[:i] == short[:i] && long[i+1:] == short[i:] {
			extra := long[i]
			if i > 0 && isKeyboardAdjacent(extra, long[i-1]) {
				return true
			}
			if i < len(short) && isKeyboardAdjacent(extra, short[i]) {
				return true
			}
			return false
		}
	}
	return false
}
