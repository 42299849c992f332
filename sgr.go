package vterm

// applySGR consumes the SGR parameter stream left-to-right with
// sub-parameter lookahead for 38/48, per §4.3.3.
func (e *Emulator) applySGR(groups [][]uint16) {
	if len(groups) == 0 {
		e.currentStyle.Reset()
		return
	}
	i := 0
	for i < len(groups) {
		v, ok := paramPresent(groups, i)
		if !ok {
			v = 0
		}
		switch v {
		case 0:
			e.currentStyle.Reset()
		case 1:
			e.currentStyle.SetBold()
			if next, ok := paramPresent(groups, i+1); ok && isSGR3BitCode(next) {
				e.currentStyle.ApplySGR3Bit(next)
				i++
			}
		case 3:
			e.currentStyle.SetItalic()
		case 4:
			e.currentStyle.SetUnderlined()
		case 23:
			e.currentStyle.UnsetItalic()
		case 24:
			e.currentStyle.UnsetUnderlined()
		case 38:
			i += e.applyExtendedColor(groups, i, true)
		case 48:
			i += e.applyExtendedColor(groups, i, false)
		case 39:
			e.currentStyle.Fg = ColorReset
		case 49:
			e.currentStyle.Bg = ColorReset
		default:
			switch {
			case v >= 30 && v <= 37, v >= 40 && v <= 47, v >= 90 && v <= 97, v >= 100 && v <= 107:
				e.currentStyle.ApplySGR3Bit(v)
			default:
				e.logf("[DEBUG] sgr: unknown parameter %d", v)
			}
		}
		i++
	}
}

// isSGR3BitCode reports whether v is one of the classical 3-bit color
// codes, used to decide whether a parameter following "1" is a chained
// color (the historical "1;31m" bold-red idiom) or an unrelated SGR code.
func isSGR3BitCode(v int) bool {
	return (v >= 30 && v <= 37) || (v >= 40 && v <= 47) || (v >= 90 && v <= 97) || (v >= 100 && v <= 107)
}

// applyExtendedColor handles "38;5;n", "38;2;r;g;b" and their 48 (bg)
// counterparts starting at groups[i]. Returns the extra groups consumed
// beyond groups[i] itself.
func (e *Emulator) applyExtendedColor(groups [][]uint16, i int, isFg bool) int {
	mode, ok := paramPresent(groups, i+1)
	if !ok {
		e.logf("[DEBUG] sgr: 38/48 missing sub-parameter")
		return 0
	}
	switch mode {
	case 5:
		n, ok := paramPresent(groups, i+2)
		if !ok {
			e.logf("[DEBUG] sgr: 38/48;5 missing index")
			return 1
		}
		c := IndexedColor(uint8(n))
		if isFg {
			e.currentStyle.Fg = c
		} else {
			e.currentStyle.Bg = c
		}
		return 2
	case 2:
		r, rOK := paramPresent(groups, i+2)
		g, gOK := paramPresent(groups, i+3)
		b, bOK := paramPresent(groups, i+4)
		if !rOK || !gOK || !bOK {
			e.logf("[DEBUG] sgr: 38/48;2 missing rgb components")
			return 1
		}
		c := RGBColor(uint8(r), uint8(g), uint8(b))
		if isFg {
			e.currentStyle.Fg = c
		} else {
			e.currentStyle.Bg = c
		}
		return 4
	default:
		e.logf("[DEBUG] sgr: unknown 38/48 sub-mode %d", mode)
		return 1
	}
}
