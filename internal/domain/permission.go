package domain

import "sort"

// Permission identifies a capability granted by the permission collaborator.
type Permission string

const (
	PermissionReadHeartRate       Permission = "ReadHeartRate"
	PermissionReadBodyTemperature Permission = "ReadBodyTemperature"
)

// RequiredPermissions is the set every sync run needs before reading.
func RequiredPermissions() PermissionSet {
	return NewPermissionSet(PermissionReadHeartRate, PermissionReadBodyTemperature)
}

type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Missing lists the members of required absent from s, sorted.
func (s PermissionSet) Missing(required PermissionSet) []Permission {
	var out []Permission
	for p := range required {
		if _, ok := s[p]; !ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s PermissionSet) ContainsAll(required PermissionSet) bool {
	return len(s.Missing(required)) == 0
}
