package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/r32sim/emu"
)

const bytesPerLine = 16

// memDump is a memory range to print after a run.
type memDump struct {
	start, end uint32
	format     string
}

var byteFormats = map[string]string{
	"hex": "%02X",
	"dec": "%03d",
	"oct": "%03o",
}

// parseMemDump parses start:end[:format]. Numbers with a 0x prefix are
// hexadecimal, others decimal. end is exclusive.
func parseMemDump(s string) (*memDump, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("expected start:end[:format], got %q", s)
	}

	start, err := parseAddr(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := parseAddr(parts[1])
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("end 0x%X is before start 0x%X", end, start)
	}

	d := &memDump{start: start, end: end, format: "hex"}
	if len(parts) == 3 {
		d.format = parts[2]
	}
	if _, ok := byteFormats[d.format]; !ok {
		return nil, fmt.Errorf("unknown format %q (want hex, dec or oct)", d.format)
	}

	return d, nil
}

func parseAddr(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint32(v), nil
}

// write prints the range, sixteen bytes per line behind their address.
func (d *memDump) write(w io.Writer, m emu.Memory) error {
	verb := byteFormats[d.format]

	var sb strings.Builder
	for addr := d.start; addr < d.end; addr++ {
		if (addr-d.start)%bytesPerLine == 0 {
			if addr != d.start {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%04X:", addr)
		}

		b, err := m.Read8(addr)
		if err != nil {
			return err
		}
		sb.WriteByte(' ')
		fmt.Fprintf(&sb, verb, b)
	}
	if d.end > d.start {
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
