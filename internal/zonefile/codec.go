// Package zonefile owns the on-disk zone file syntax and the file level
// lifecycle of hosted zones: one file per zone under a root directory,
// soft deletion by relocation into a "deleted" subdirectory.
package zonefile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nricciar/em-dns-manager/internal/zone"
)

// Zone metadata is carried in comment directives at the top of the file,
// ahead of the standard $TTL/$ORIGIN directives.
const (
	directiveRef    = ";$REF"
	directiveZoneID = ";$ZONEID"
	directiveUID    = ";$UID"
)

// Marshal writes the zone in zone file syntax. Records appear in insertion
// order; owner names and host targets stay in their stored relative form.
func Marshal(w io.Writer, z *zone.Zone) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", directiveRef, z.Ref)
	fmt.Fprintf(&b, "%s %s ; %s\n", directiveZoneID, z.Key, z.Comment)
	fmt.Fprintf(&b, "%s %d\n", directiveUID, z.Owner)
	fmt.Fprintf(&b, "$TTL\t%d\n", z.TTL)
	fmt.Fprintf(&b, "$ORIGIN\t%s\n", z.Origin)

	for _, r := range z.Records {
		fmt.Fprintf(&b, "%s\t%d\t%s\t%s\t%s\n", r.Name, r.TTL, zone.Class, r.Type(), marshalRData(r.Data))
	}

	_, err := io.WriteString(w, b.String())

	return errors.Wrap(err, "failed to write zone file")
}

func marshalRData(data zone.RData) string {
	switch d := data.(type) {
	case zone.SOAData:
		return fmt.Sprintf("%s %s ( %s %d %d %d %d )",
			d.NS, d.Contact, d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum)

	case zone.MXData:
		return fmt.Sprintf("%d %s", d.Priority, d.Target)

	case zone.SRVData:
		return fmt.Sprintf("%d %d %d %s", d.Priority, d.Weight, d.Port, d.Target)

	case zone.HostData:
		return d.Target

	case zone.AddrData:
		return d.IP

	case zone.TXTData:
		return strconv.Quote(d.Text)

	default:
		return ""
	}
}

// Unmarshal parses a zone file back into a Zone. The parser is strict
// about the syntax Marshal emits but tolerant of blank lines and plain
// comment lines.
func Unmarshal(r io.Reader) (*zone.Zone, error) {
	var (
		z       zone.Zone
		scanner = bufio.NewScanner(r)
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, directiveRef+" "):
			z.Ref = strings.TrimSpace(strings.TrimPrefix(line, directiveRef))

		case strings.HasPrefix(line, directiveZoneID+" "):
			meta := strings.TrimSpace(strings.TrimPrefix(line, directiveZoneID))
			key, comment, _ := strings.Cut(meta, ";")
			z.Key = strings.TrimSpace(key)
			z.Comment = strings.TrimSpace(comment)

		case strings.HasPrefix(line, directiveUID+" "):
			owner, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, directiveUID)))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad owner id", lineNo)
			}

			z.Owner = owner

		case strings.HasPrefix(line, ";"):
			// plain comment

		case strings.HasPrefix(line, "$TTL"):
			ttl, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(line, "$TTL")), 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad $TTL", lineNo)
			}

			z.TTL = uint32(ttl)

		case strings.HasPrefix(line, "$ORIGIN"):
			z.Origin = strings.TrimSpace(strings.TrimPrefix(line, "$ORIGIN"))

		default:
			rec, err := parseRecordLine(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}

			z.Records = append(z.Records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read zone file")
	}

	if z.Origin == "" {
		return nil, errors.New("zone file has no $ORIGIN")
	}

	return &z, nil
}

// parseRecordLine parses "name ttl IN TYPE rdata...".
func parseRecordLine(line string) (zone.Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return zone.Record{}, errors.Errorf("malformed record line %q", line)
	}

	if fields[2] != zone.Class {
		return zone.Record{}, errors.Errorf("unsupported record class %q", fields[2])
	}

	ttl, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return zone.Record{}, errors.Wrapf(err, "bad ttl %q", fields[1])
	}

	data, err := parseRData(zone.Type(fields[3]), fields[4:], rdataText(line))
	if err != nil {
		return zone.Record{}, err
	}

	return zone.Record{Name: fields[0], TTL: uint32(ttl), Data: data}, nil
}

// rdataText returns the raw payload text after the type column, so
// payloads with significant whitespace (TXT) survive a reparse.
func rdataText(line string) string {
	rest := line

	for n := 0; n < 4; n++ {
		rest = strings.TrimLeft(rest, " \t")
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			rest = rest[i+1:]
		}
	}

	return strings.TrimSpace(rest)
}

func parseRData(t zone.Type, fields []string, raw string) (zone.RData, error) {
	switch t {
	case zone.TypeSOA:
		return parseSOA(fields)

	case zone.TypeMX:
		if len(fields) != 2 {
			return nil, errors.Errorf("MX rdata needs priority and target, got %q", strings.Join(fields, " "))
		}

		priority, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "bad MX priority %q", fields[0])
		}

		return zone.MXData{Priority: priority, Target: fields[1]}, nil

	case zone.TypeSRV:
		if len(fields) != 4 {
			return nil, errors.Errorf("SRV rdata needs four fields, got %q", strings.Join(fields, " "))
		}

		var nums [3]int

		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, errors.Wrapf(err, "bad SRV field %q", fields[i])
			}

			nums[i] = n
		}

		return zone.SRVData{Priority: nums[0], Weight: nums[1], Port: nums[2], Target: fields[3]}, nil

	case zone.TypeNS, zone.TypeCNAME, zone.TypePTR:
		return zone.HostData{Kind: t, Target: fields[0]}, nil

	case zone.TypeA, zone.TypeAAAA:
		return zone.AddrData{Kind: t, IP: fields[0]}, nil

	case zone.TypeTXT:
		text := raw
		if unquoted, err := strconv.Unquote(text); err == nil {
			text = unquoted
		}

		return zone.TXTData{Text: text}, nil

	default:
		return nil, errors.Errorf("unsupported record type %q", string(t))
	}
}

// parseSOA parses "ns contact ( serial refresh retry expire minimum )",
// parens optional.
func parseSOA(fields []string) (zone.RData, error) {
	cleaned := make([]string, 0, len(fields))

	for _, f := range fields {
		if f == "(" || f == ")" {
			continue
		}

		cleaned = append(cleaned, f)
	}

	if len(cleaned) != 7 {
		return nil, errors.Errorf("SOA rdata needs seven fields, got %q", strings.Join(fields, " "))
	}

	var timers [4]int

	for i, f := range cleaned[3:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "bad SOA timer %q", f)
		}

		timers[i] = n
	}

	return zone.SOAData{
		NS:      cleaned[0],
		Contact: cleaned[1],
		Serial:  cleaned[2],
		Refresh: timers[0],
		Retry:   timers[1],
		Expire:  timers[2],
		Minimum: timers[3],
	}, nil
}
