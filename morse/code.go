package morse

// codePatterns is the fixed international Morse alphabet supported by
// the encoder. Initialized once, never mutated.
var codePatterns = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..", '0': "-----", '1': ".----", '2': "..---", '3': "...--",
	'4': "....-", '5': ".....", '6': "-....", '7': "--...", '8': "---..",
	'9': "----.", '.': ".-.-.-", ',': "--..--", '/': "-..-.", '?': "..--..",
	'=': "-...-",
}

var codeTable = buildCodeTable()

func buildCodeTable() map[rune][]Symbol {
	table := make(map[rune][]Symbol, len(codePatterns))
	for r, pattern := range codePatterns {
		tones := make([]Symbol, 0, len(pattern))
		for _, c := range pattern {
			if c == '.' {
				tones = append(tones, Dot)
			} else {
				tones = append(tones, Dash)
			}
		}
		table[r] = tones
	}
	return table
}

// Code returns the Dot/Dash sequence for a supported character, or
// false for characters outside the alphabet.
func Code(r rune) ([]Symbol, bool) {
	tones, ok := codeTable[r]
	if !ok {
		return nil, false
	}
	out := make([]Symbol, len(tones))
	copy(out, tones)
	return out, true
}

// sequenceFromPattern expands a compact pattern string into symbols:
// '.' dot, '-' dash, '*' intra gap, '$' character gap, '/' word gap.
func sequenceFromPattern(pattern string) []Symbol {
	seq := make([]Symbol, 0, len(pattern))
	for _, c := range pattern {
		switch c {
		case '.':
			seq = append(seq, Dot)
		case '-':
			seq = append(seq, Dash)
		case '*':
			seq = append(seq, IntraGap)
		case '$':
			seq = append(seq, CharacterGap)
		case '/':
			seq = append(seq, WordGap)
		default:
			panic("morse: bad pattern character " + string(c))
		}
	}
	return seq
}

// Fixed procedure signals, consumed verbatim by the encoder.
var (
	// trainingPreamble is VVV followed by = (start of transmission).
	trainingPreamble = sequenceFromPattern(
		".*.*.*-$" + ".*.*.*-$" + ".*.*.*-/" + "-*.*.*.*-/")

	// competitionsLettersPreamble is five K-like attention groups sent
	// before letters or mixed content.
	competitionsLettersPreamble = sequenceFromPattern(
		"-*-*-$" + "-*-*-$" + "-*-*-$" + "-*-*-$" + "-*-*-/")

	// competitionsDigitsPreamble is five long-dash groups sent before
	// digits content.
	competitionsDigitsPreamble = sequenceFromPattern(
		"-*-*-*-*-$" + "-*-*-*-*-$" + "-*-*-*-*-$" + "-*-*-*-*-$" + "-*-*-*-*-/")

	// postamble is the end-of-work signal .-.-. after a word gap.
	postamble = sequenceFromPattern("/.*-*.*-*.")
)
