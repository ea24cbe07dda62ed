package text

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/cfgsweep/pkg/errs"
)

// templateEscapes are the character escapes a replacement template understands
var templateEscapes = map[byte]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// ExpandTemplate converts a replacement template into the form accepted by
// regexp.Regexp.ReplaceAll.
//
// Templates use backslash group references: \1 or \12 for numbered groups,
// \g<1> or \g<name> for explicit ones, \g<0> for the whole match. A dollar sign
// is always literal. Escapes such as \n and \\ produce the character; any other
// backslash before a non-letter is kept as is. A reference to a group the
// pattern does not define, or an unknown letter escape, is a PatternError.
func ExpandTemplate(re *regexp.Regexp, template string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	literal := func(r rune) {
		if r == '$' {
			b.WriteString("$$")
			return
		}
		b.WriteRune(r)
	}
	group := func(pos int, ref string) error {
		if n, err := strconv.Atoi(ref); err == nil && isDigits(ref) {
			if n > re.NumSubexp() {
				return errs.Errorf(errs.KindPattern, "invalid group reference %d at position %d", n, pos)
			}
			b.WriteString("${" + strconv.Itoa(n) + "}")
			return nil
		}
		if !isGroupName(ref) {
			return errs.Errorf(errs.KindPattern, "bad character in group name %q at position %d", ref, pos)
		}
		if re.SubexpIndex(ref) < 0 {
			return errs.Errorf(errs.KindPattern, "unknown group name %q at position %d", ref, pos)
		}
		b.WriteString("${" + ref + "}")
		return nil
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		start := i
		i++
		if i == len(template) {
			return "", errs.Errorf(errs.KindPattern, "bad escape (end of template) at position %d", start)
		}
		c = template[i]

		switch {
		case c == 'g':
			if i+1 >= len(template) || template[i+1] != '<' {
				return "", errs.Errorf(errs.KindPattern, "missing < after \\g at position %d", start)
			}
			end := strings.IndexByte(template[i+2:], '>')
			if end < 0 {
				return "", errs.Errorf(errs.KindPattern, "missing >, unterminated name at position %d", start)
			}
			ref := template[i+2 : i+2+end]
			if ref == "" {
				return "", errs.Errorf(errs.KindPattern, "missing group name at position %d", start)
			}
			if err := group(start, ref); err != nil {
				return "", err
			}
			i += 2 + end

		case c == '0':
			// octal escape: \0 and up to two more octal digits
			v, j := 0, i+1
			for ; j < len(template) && j < i+3 && isOctal(template[j]); j++ {
				v = v*8 + int(template[j]-'0')
			}
			literal(rune(v))
			i = j - 1

		case isDigit(c):
			j := i + 1
			if j < len(template) && isDigit(template[j]) {
				if j+1 < len(template) && isOctal(c) && isOctal(template[j]) && isOctal(template[j+1]) {
					v := int(c-'0')*64 + int(template[j]-'0')*8 + int(template[j+1]-'0')
					if v > 0o377 {
						return "", errs.Errorf(errs.KindPattern, "octal escape value \\%s outside of range 0-0o377 at position %d", template[i:j+2], start)
					}
					literal(rune(v))
					i = j + 1
					continue
				}
				j++
			}
			if err := group(start, template[i:j]); err != nil {
				return "", err
			}
			i = j - 1

		default:
			if r, ok := templateEscapes[c]; ok {
				literal(r)
				continue
			}
			if isASCIILetter(c) {
				return "", errs.Errorf(errs.KindPattern, "bad escape \\%c at position %d", c, start)
			}
			b.WriteByte('\\')
			if c == '$' {
				b.WriteString("$$")
			} else {
				b.WriteByte(c)
			}
		}
	}

	return b.String(), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isGroupName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !isASCIILetter(c) && !(i > 0 && isDigit(c)) {
			return false
		}
	}
	return name != ""
}
