package filter

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

const maxIPv4 = int64(0xffffffff)

// ipRange is an inclusive range of IPv4 addresses in integer form.
type ipRange [2]int64

// ConvertSubnetToRange returns the network and broadcast addresses of an
// IPv4 CIDR as integers. ok is false for anything that is not <address>/<bits>.
func ConvertSubnetToRange(cidr string) (low int64, high int64, ok bool) {
	slash := strings.Index(cidr, "/")
	if slash < 0 || slash == len(cidr)-1 {
		return 0, 0, false
	}
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil || !prefix.Addr().Is4() {
		return 0, 0, false
	}
	addr := prefix.Addr().As4()
	ip := binary.BigEndian.Uint32(addr[:])
	mask := uint32(0)
	if bits := prefix.Bits(); bits > 0 {
		mask = ^uint32(0) << (32 - bits)
	}
	network := ip & mask
	broadcast := network | ^mask
	return int64(network), int64(broadcast), true
}

func parseSubnets(value string, invalid func(subnet string) error) ([]ipRange, error) {
	var ranges []ipRange
	for _, subnet := range strings.Split(value, ",") {
		subnet = strings.TrimSpace(subnet)
		if subnet == "" {
			continue
		}
		low, high, ok := ConvertSubnetToRange(subnet)
		if !ok {
			return nil, invalid(subnet)
		}
		ranges = append(ranges, ipRange{low, high})
	}
	return ranges, nil
}

// complementRanges subtracts the sorted ranges from the whole IPv4 space.
// Each range is cut out of the last remaining piece, so overlapping inputs
// are not merged. Pieces beyond either end of the space are left out, and
// nil means nothing remains.
func complementRanges(ranges []ipRange) []ipRange {
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b ipRange) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	result := []ipRange{{0, maxIPv4}}
	for _, r := range sorted {
		if len(result) == 0 {
			break
		}
		last := result[len(result)-1]
		result = result[:len(result)-1]
		if r[0] > 0 {
			result = append(result, ipRange{last[0], r[0] - 1})
		}
		if r[1] < maxIPv4 {
			result = append(result, ipRange{r[1] + 1, last[1]})
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func rawRangeMatch(field string, ranges []ipRange) string {
	clauses := make([]string, 0, len(ranges))
	for _, r := range ranges {
		clauses = append(clauses, fmt.Sprintf(`"%s_raw" == match({"$gte": %d, "$lte": %d})`, field, r[0], r[1]))
	}
	return "(" + strings.Join(clauses, " or ") + ")"
}
