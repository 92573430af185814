package classfile

import "strings"

// HasNoArgs reports whether a method descriptor declares zero parameters.
func HasNoArgs(descriptor string) bool {
	return strings.HasPrefix(descriptor, "()")
}

// ReturnsVoid reports whether a method descriptor has a void return type.
func ReturnsVoid(descriptor string) bool {
	i := strings.LastIndexByte(descriptor, ')')
	if i < 0 {
		return false
	}
	return descriptor[i+1:] == "V"
}

// ParamCount counts declared parameters in a method descriptor. Malformed
// descriptors yield -1.
func ParamCount(descriptor string) int {
	if len(descriptor) < 2 || descriptor[0] != '(' {
		return -1
	}
	n := 0
	i := 1
	for i < len(descriptor) && descriptor[i] != ')' {
		// array dimensions prefix the element type
		for i < len(descriptor) && descriptor[i] == '[' {
			i++
		}
		if i >= len(descriptor) {
			return -1
		}
		if descriptor[i] == 'L' {
			end := strings.IndexByte(descriptor[i:], ';')
			if end < 0 {
				return -1
			}
			i += end + 1
		} else {
			i++
		}
		n++
	}
	if i >= len(descriptor) {
		return -1
	}
	return n
}
