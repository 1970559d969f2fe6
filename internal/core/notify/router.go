// Package notify routes entries of the shared notification log to viewers and
// tracks which entries a viewer has already been shown.
package notify

import (
	"mdstore/internal/core/model"
)

// Append returns log with n added at the tail. The input slice is not
// modified.
func Append(log []model.Notification, n model.Notification) []model.Notification {
	out := make([]model.Notification, 0, len(log)+1)
	out = append(out, log...)
	return append(out, n)
}

// VisibleTo keeps broadcasts and entries targeted at viewerEmail, in log
// order. Admin-only entries are never shown on the storefront. An empty
// viewerEmail (signed-out visitor) sees broadcasts only.
func VisibleTo(log []model.Notification, viewerEmail string) []model.Notification {
	var out []model.Notification
	for _, n := range log {
		if n.AdminOnly() {
			continue
		}
		if n.TargetEmail == "" || (viewerEmail != "" && n.TargetEmail == viewerEmail) {
			out = append(out, n)
		}
	}
	return out
}

// Unseen lists the entries visible to viewerEmail whose key is not in seen.
func Unseen(log []model.Notification, viewerEmail string, seen []model.Stamp) []model.Notification {
	index := seenIndex(seen)
	var out []model.Notification
	for _, n := range VisibleTo(log, viewerEmail) {
		if _, ok := index[n.SeenKey()]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// UnseenFor counts the entries Unseen would return.
func UnseenFor(log []model.Notification, viewerEmail string, seen []model.Stamp) int {
	return len(Unseen(log, viewerEmail, seen))
}

// MarkSeen returns seen with n's key added. Marking an entry twice leaves the
// set unchanged.
func MarkSeen(seen []model.Stamp, n model.Notification) []model.Stamp {
	key := n.SeenKey()
	for _, k := range seen {
		if k == key {
			return seen
		}
	}
	out := make([]model.Stamp, 0, len(seen)+1)
	out = append(out, seen...)
	return append(out, key)
}

// AdminFeed returns the whole log newest first, for the admin panel.
func AdminFeed(log []model.Notification) []model.Notification {
	out := make([]model.Notification, len(log))
	for i, n := range log {
		out[len(log)-1-i] = n
	}
	return out
}

func seenIndex(seen []model.Stamp) map[model.Stamp]struct{} {
	index := make(map[model.Stamp]struct{}, len(seen))
	for _, k := range seen {
		index[k] = struct{}{}
	}
	return index
}
