package tracker

import "strconv"

// TextColorFor picks black or white text for a #rrggbb background using YIQ brightness.
func TextColorFor(hex string) string {
	if len(hex) < 7 || hex[0] != '#' {
		return "#FFFFFF"
	}
	r, errR := strconv.ParseUint(hex[1:3], 16, 8)
	g, errG := strconv.ParseUint(hex[3:5], 16, 8)
	b, errB := strconv.ParseUint(hex[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "#FFFFFF"
	}
	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}
