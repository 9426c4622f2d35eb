package schema

import "strings"

// ObjectName is a possibly qualified name such as "sales.orders" or
// "orders.id". Parent is empty for unqualified names.
type ObjectName struct {
	Parent string
	Name   string
}

// ParseName splits a dotted name on its last dot.
func ParseName(s string) ObjectName {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return ObjectName{Parent: s[:i], Name: s[i+1:]}
	}
	return ObjectName{Name: s}
}

// NewName builds an unqualified name.
func NewName(name string) ObjectName {
	return ObjectName{Name: name}
}

// Child returns the name qualified by n.
func (n ObjectName) Child(name string) ObjectName {
	return ObjectName{Parent: n.FullName(), Name: name}
}

// IsQualified reports whether the name carries a parent part.
func (n ObjectName) IsQualified() bool {
	return n.Parent != ""
}

// FullName returns the dotted form.
func (n ObjectName) FullName() string {
	if n.Parent == "" {
		return n.Name
	}
	return n.Parent + "." + n.Name
}

func (n ObjectName) String() string {
	return n.FullName()
}

// Equals compares two names, optionally ignoring case.
func (n ObjectName) Equals(other ObjectName, ignoreCase bool) bool {
	return identEqual(n.Parent, other.Parent, ignoreCase) && identEqual(n.Name, other.Name, ignoreCase)
}

// Matches reports whether a (possibly partial) qualifier such as "orders"
// refers to n, which may be fully qualified as "sales.orders".
func (n ObjectName) Matches(qualifier string, ignoreCase bool) bool {
	if identEqual(n.FullName(), qualifier, ignoreCase) {
		return true
	}
	return identEqual(n.Name, qualifier, ignoreCase)
}

func identEqual(a, b string, ignoreCase bool) bool {
	if ignoreCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}
