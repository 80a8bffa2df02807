package engine

// Binding is one committed group capture. Inner holds the captures committed
// inside the group's own body. Bindings form persistent lists, newest first,
// so a frame can be extended without disturbing anyone holding an older head.
type Binding struct {
	Name  string
	Value string
	Inner *Binding
	next  *Binding
}

func (b *Binding) find(name string) *Binding {
	for ; b != nil; b = b.next {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Scope is one frame of the scope chain: the bindings committed so far in the
// body of the innermost open group, and the frame of the body enclosing it.
// Scopes are never mutated; binding returns a new frame.
type Scope struct {
	head   *Binding
	parent *Scope
}

// Bindings returns the newest binding of the frame.
func (s *Scope) Bindings() *Binding {
	if s == nil {
		return nil
	}
	return s.head
}

// open starts the frame for a group body nested in s.
func (s *Scope) open() *Scope {
	return &Scope{parent: s}
}

// bind commits name=value to s, keeping the captures of the group body as Inner.
func (s *Scope) bind(name, value string, inner *Binding) *Scope {
	return &Scope{
		head:   &Binding{Name: name, Value: value, Inner: inner, next: s.head},
		parent: s.parent,
	}
}

// Resolve looks up a reference path. The first segment resolves to the nearest
// visible binding of that name, searching the current frame and then each
// enclosing one; any further segments descend through that binding's body.
func (s *Scope) Resolve(path []string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	for f := s; f != nil; f = f.parent {
		b := f.head.find(path[0])
		if b == nil {
			continue
		}
		for _, seg := range path[1:] {
			if b = b.Inner.find(seg); b == nil {
				return "", false
			}
		}
		return b.Value, true
	}
	return "", false
}

// Flatten maps every binding reachable from head to its dotted path. When a
// name was bound more than once in a frame only the newest binding, and the
// captures inside it, are kept.
func Flatten(head *Binding) map[string]string {
	out := make(map[string]string)
	flatten(head, "", out)
	return out
}

func flatten(b *Binding, prefix string, out map[string]string) {
	seen := make(map[string]bool)
	for ; b != nil; b = b.next {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		path := prefix + b.Name
		out[path] = b.Value
		flatten(b.Inner, path+".", out)
	}
}
