package egret

// SubResource is the Go mapping of spec.md §2 item 6 and §4.3: a handler
// may return a SubResource instead of a terminal Result, delegating
// everything past the consumed prefix to it. This is the generalization
// of the teacher's Controller (penguin.go) — a Controller mounts once at
// registration time; a SubResource resolves recursively, one path segment
// at a time, at dispatch time, matching the original's resource-returns-a-
// resource traversal.
type SubResource interface {
	// Child attempts to resolve one more path segment. It returns the
	// next SubResource to delegate to and true, or (nil, false) if this
	// SubResource is a leaf that should render the given (possibly empty)
	// remaining segments itself.
	Child(segment string) (SubResource, bool)

	// Render produces the Result for the remaining, unconsumed path
	// (c.PostPath()) once traversal reaches a leaf. It may itself return
	// an Eventual or None (e.g. when it drives the response via a
	// Producer).
	Render(c *Context) Result
}

// traverse repeatedly resolves sr.Child(segment) against the unconsumed
// tail of the path until a leaf is reached or the tail is exhausted, then
// calls Render on the leaf (spec.md §4.3). prepath/postpath bookkeeping on
// the Context lets a leaf's url_for calls and logging reflect how much of
// the path was consumed by delegation.
func traverse(c *Context, sr SubResource) Result {
	for {
		seg, rest, hasMore := nextSegment(c.postpath)
		if !hasMore {
			return sr.Render(c)
		}
		next, delegated := sr.Child(seg)
		if !delegated {
			return sr.Render(c)
		}
		c.prepath = append(c.prepath, seg)
		c.postpath = rest
		sr = next
	}
}

// nextSegment splits the first "/"-delimited segment off path. hasMore is
// false once path is empty, signalling traversal should stop and render.
func nextSegment(path []string) (seg string, rest []string, hasMore bool) {
	if len(path) == 0 {
		return "", nil, false
	}
	return path[0], path[1:], true
}
