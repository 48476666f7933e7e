package vls

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vls-mesh/internal/mesh"
)

// materialKeys maps descriptor letters to material map keys.
var materialKeys = map[byte]string{
	'm': "metallic",
	'r': "roughness",
	'g': "gloss",
	'o': "opacity",
	'e': "emissive",
	'n': "normalMap",
	'b': "bumpMap",
	'w': "wetness",
	'a': "color",
}

var (
	materialPair = regexp.MustCompile(`([a-z])(\[#[0-9A-Fa-f]{6}\]|\d+(?:\.\d+)?)`)
	lightingPair = regexp.MustCompile(`(\d+)\[([^\]]*)\]`)
)

// ParseMaterial reads "letter+number" and "letter+[#hex]" pairs, in any
// subset and order. Unrecognized letters, mistyped values and leftover text
// are reported as problems; the pairs that did parse are still returned.
func ParseMaterial(body string) (map[string]any, []string) {
	out := make(map[string]any)
	var problems []string

	matches := materialPair.FindAllStringSubmatchIndex(body, -1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			problems = append(problems, fmt.Sprintf("unparsed text %q", body[last:m[0]]))
		}
		last = m[1]

		letter := body[m[2]]
		value := body[m[4]:m[5]]
		key, ok := materialKeys[letter]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown material key %q", string(letter)))
			continue
		}

		isColor := strings.HasPrefix(value, "[")
		switch {
		case letter == 'a' && isColor:
			out[key] = value[1 : len(value)-1]
		case letter == 'a':
			problems = append(problems, fmt.Sprintf("color needs [#RRGGBB], got %q", value))
		case isColor:
			problems = append(problems, fmt.Sprintf("%s takes a number, got %q", key, value))
		case letter == 'n':
			f, _ := strconv.ParseFloat(value, 64)
			out[key] = f != 0
		default:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", key, err))
				continue
			}
			out[key] = f
		}
	}
	if last < len(body) {
		problems = append(problems, fmt.Sprintf("unparsed text %q", body[last:]))
	}
	return out, problems
}

// ParseLighting reads one or more "<type>[<n>,<n>,...]" entries.
func ParseLighting(body string) ([]mesh.Light, []string) {
	var (
		lights   []mesh.Light
		problems []string
	)

	matches := lightingPair.FindAllStringSubmatchIndex(body, -1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			problems = append(problems, fmt.Sprintf("unparsed text %q", body[last:m[0]]))
		}
		last = m[1]

		typ, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil {
			problems = append(problems, fmt.Sprintf("light type: %v", err))
			continue
		}
		light := mesh.Light{Type: typ, Params: []float64{}}
		ok := true
		if raw := strings.TrimSpace(body[m[4]:m[5]]); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
				if err != nil {
					problems = append(problems, fmt.Sprintf("light %d: bad parameter %q", typ, p))
					ok = false
					break
				}
				light.Params = append(light.Params, f)
			}
		}
		if ok {
			lights = append(lights, light)
		}
	}
	if last < len(body) {
		problems = append(problems, fmt.Sprintf("unparsed text %q", body[last:]))
	}
	return lights, problems
}
