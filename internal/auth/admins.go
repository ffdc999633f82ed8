package auth

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// AdminSet is the set of addresses holding admin capability over the
// ledger and the vendor directory.
type AdminSet map[common.Address]struct{}

// NewAdminSet builds a set from addrs. Zero addresses are ignored.
func NewAdminSet(addrs ...common.Address) AdminSet {
	s := make(AdminSet, len(addrs))
	for _, a := range addrs {
		if a != (common.Address{}) {
			s[a] = struct{}{}
		}
	}
	return s
}

// ParseAdminSet parses hex addresses, as found in config.
func ParseAdminSet(hexAddrs []string) (AdminSet, error) {
	addrs := make([]common.Address, 0, len(hexAddrs))
	for _, h := range hexAddrs {
		if !common.IsHexAddress(h) {
			return nil, fmt.Errorf("invalid admin address %q", h)
		}
		addrs = append(addrs, common.HexToAddress(h))
	}
	return NewAdminSet(addrs...), nil
}

// IsAdmin reports whether addr is in the set.
func (s AdminSet) IsAdmin(addr common.Address) bool {
	_, ok := s[addr]
	return ok
}

// Addresses lists the admins in ascending order.
func (s AdminSet) Addresses() []common.Address {
	out := make([]common.Address, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}
