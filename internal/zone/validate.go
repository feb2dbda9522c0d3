package zone

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/nricciar/em-dns-manager/internal/config"
)

var (
	// originRe matches an absolute zone origin: dot separated labels with a
	// mandatory trailing dot.
	originRe = regexp.MustCompile(`^[-\w]+(\.[-\w]+)*\.$`)

	// nameRe matches a record owner name: dot separated labels, optionally
	// absolute, with an optional leading wildcard label.
	nameRe = regexp.MustCompile(`^(\*\.)?[-\w]+(\.[-\w]+)*\.?$`)

	// hostRe matches a host-name shaped record payload.
	hostRe = regexp.MustCompile(`^[-\w]+(\.[-\w]+)*\.?$`)

	// refRe matches a caller supplied reference string.
	refRe = regexp.MustCompile(`^\w+$`)
)

// ValidOrigin reports whether the given origin is an absolute FQDN.
func ValidOrigin(origin string) bool {
	return originRe.MatchString(origin)
}

// ValidRef reports whether the given caller reference is alphanumeric.
func ValidRef(ref string) bool {
	return refRe.MatchString(ref)
}

// Input is a record as submitted by a caller, before validation.
type Input struct {
	Name  string
	Type  string
	TTL   string
	Value string
}

// Build validates a submitted record against the zone origin and the
// per-deployment record type policy, and constructs the typed record.
// All violations are collected into problems rather than short-circuited,
// so one submission reports every defect in a single round trip.
// On any problem the returned record is the zero Record.
func Build(origin string, in Input, policy config.Record) (Record, []string) {
	var problems []string

	name := Relativize(in.Name, origin)
	if name == "" {
		name = "@"
	}

	if name != "@" && !nameRe.MatchString(name) {
		problems = append(problems, fmt.Sprintf("invalid record name %q", in.Name))
	}

	ttl, err := parseTTL(in.TTL)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid ttl %q for record %q", in.TTL, in.Name))
	}

	t := Type(strings.ToUpper(in.Type))
	if problem := checkTypeAllowed(t, origin, policy); problem != "" {
		problems = append(problems, problem)
		return Record{}, problems
	}

	data, dataProblems := buildRData(t, origin, in)
	problems = append(problems, dataProblems...)

	if len(problems) > 0 {
		return Record{}, problems
	}

	return Record{Name: name, TTL: ttl, Data: data}, nil
}

// checkTypeAllowed enforces the record type policy. SOA is rejected
// unconditionally: the seeded SOA record is never user-editable.
func checkTypeAllowed(t Type, origin string, policy config.Record) string {
	if t == TypeSOA {
		return "SOA records can not be modified"
	}

	settings, ok := policy[string(t)]
	if !ok {
		return fmt.Sprintf("record type %q is not supported", string(t))
	}

	if IsReverse(origin) {
		if !settings.Reverse {
			return fmt.Sprintf("record type %q is not allowed in reverse zones", string(t))
		}

		return ""
	}

	if !settings.Forward {
		return fmt.Sprintf("record type %q is not allowed in forward zones", string(t))
	}

	return ""
}

// buildRData constructs the typed payload for the given record type,
// decomposing compound wire values (MX "priority target",
// SRV "priority weight port target") into their discrete fields.
func buildRData(t Type, origin string, in Input) (RData, []string) {
	switch t {
	case TypeA:
		ip := net.ParseIP(in.Value)
		if ip == nil || ip.To4() == nil {
			return nil, []string{fmt.Sprintf("invalid IPv4 address %q for A record %q", in.Value, in.Name)}
		}

		return AddrData{Kind: TypeA, IP: in.Value}, nil

	case TypeAAAA:
		ip := net.ParseIP(in.Value)
		if ip == nil || ip.To4() != nil {
			return nil, []string{fmt.Sprintf("invalid IPv6 address %q for AAAA record %q", in.Value, in.Name)}
		}

		return AddrData{Kind: TypeAAAA, IP: in.Value}, nil

	case TypeNS, TypeCNAME, TypePTR:
		target, problem := hostTarget(t, origin, in)
		if problem != "" {
			return nil, []string{problem}
		}

		return HostData{Kind: t, Target: target}, nil

	case TypeTXT:
		if in.Value == "" {
			return nil, []string{fmt.Sprintf("empty value for TXT record %q", in.Name)}
		}

		return TXTData{Text: in.Value}, nil

	case TypeMX:
		return buildMX(origin, in)

	case TypeSRV:
		return buildSRV(origin, in)

	default:
		return nil, []string{fmt.Sprintf("record type %q is not supported", string(t))}
	}
}

func hostTarget(t Type, origin string, in Input) (target, problem string) {
	target = Relativize(in.Value, origin)
	if target != "@" && !hostRe.MatchString(target) {
		return "", fmt.Sprintf("invalid value %q for %s record %q", in.Value, string(t), in.Name)
	}

	return target, ""
}

// buildMX decomposes the "priority target" payload of an MX record.
func buildMX(origin string, in Input) (RData, []string) {
	var problems []string

	prio, rest, found := strings.Cut(in.Value, " ")
	if !found {
		return nil, []string{fmt.Sprintf("MX record %q requires a \"priority target\" value", in.Name)}
	}

	priority, err := parseNonNegative(prio)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid priority %q for MX record %q", prio, in.Name))
	}

	target := Relativize(strings.TrimSpace(rest), origin)
	if target != "@" && !hostRe.MatchString(target) {
		problems = append(problems, fmt.Sprintf("invalid value %q for MX record %q", rest, in.Name))
	}

	if len(problems) > 0 {
		return nil, problems
	}

	return MXData{Priority: priority, Target: target}, nil
}

// buildSRV decomposes the "priority weight port target" payload of an
// SRV record.
func buildSRV(origin string, in Input) (RData, []string) {
	var problems []string

	fields := strings.Fields(in.Value)
	if len(fields) != 4 {
		return nil, []string{fmt.Sprintf("SRV record %q requires a \"priority weight port target\" value", in.Name)}
	}

	priority, err := parseNonNegative(fields[0])
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid priority %q for SRV record %q", fields[0], in.Name))
	}

	weight, err := parseNonNegative(fields[1])
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid weight %q for SRV record %q", fields[1], in.Name))
	}

	port, err := parseNonNegative(fields[2])
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q for SRV record %q", fields[2], in.Name))
	}

	target := Relativize(fields[3], origin)
	if target != "@" && !hostRe.MatchString(target) {
		problems = append(problems, fmt.Sprintf("invalid value %q for SRV record %q", fields[3], in.Name))
	}

	if len(problems) > 0 {
		return nil, problems
	}

	return SRVData{Priority: priority, Weight: weight, Port: port, Target: target}, nil
}

func parseTTL(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}

func parseNonNegative(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}

	return int(v), nil
}
