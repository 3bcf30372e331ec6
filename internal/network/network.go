// Package network keeps the people and friendships of the amici client in a
// table keyed by handle.
package network

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/theflywheel/table"
)

var (
	ErrHandleTaken    = errors.New("handle is already taken")
	ErrUnknownHandle  = errors.New("is not a known handle")
	ErrSelfFriend     = errors.New("cannot befriend themselves")
	ErrAlreadyFriends = errors.New("are already friends")
	ErrNotFriends     = errors.New("are not friends")
	ErrInvalidName    = errors.New("names and handle must be non-empty")
)

// HandleError reports a failed operation on one or two handles.
type HandleError struct {
	Handles []string
	Err     error
}

func (e *HandleError) Error() string {
	switch len(e.Handles) {
	case 1:
		if errors.Is(e.Err, ErrHandleTaken) {
			return fmt.Sprintf("handle '%s' is already taken. Try another handle.", e.Handles[0])
		}
		return fmt.Sprintf("'%s' %v", e.Handles[0], e.Err)
	case 2:
		return fmt.Sprintf("'%s' and '%s' %v.", e.Handles[0], e.Handles[1], e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *HandleError) Unwrap() error { return e.Err }

// Person is a member of the network.
type Person struct {
	FirstName string
	LastName  string
	Handle    string
	Friends   []*Person
}

func (p *Person) String() string {
	return fmt.Sprintf("%s %s ('%s')", p.FirstName, p.LastName, p.Handle)
}

func (p *Person) isFriend(other *Person) bool {
	return slices.Contains(p.Friends, other)
}

func (p *Person) removeFriend(other *Person) {
	p.Friends = slices.DeleteFunc(p.Friends, func(f *Person) bool { return f == other })
}

// Network holds people by handle and counts friendships. It is not safe for
// concurrent use.
type Network struct {
	people      *table.Table[string, *Person]
	friendships int
	logger      *log.Logger
}

// New returns an empty network. A nil logger disables logging.
func New(logger *log.Logger) *Network {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	n := &Network{logger: logger}
	n.people = n.newTable()
	return n
}

func (n *Network) newTable() *table.Table[string, *Person] {
	return table.NewString(printPerson, releasePerson, table.WithLogger(n.logger))
}

func printPerson(w io.Writer, handle string, p *Person) {
	fmt.Fprintf(w, "%s : %s, %d friends", handle, p, len(p.Friends))
}

// releasePerson drops the references a person holds so the graph can be
// collected once the table is gone.
func releasePerson(_ string, p *Person) {
	p.Friends = nil
}

// Add registers a person under a unique handle.
func (n *Network) Add(firstName, lastName, handle string) error {
	if firstName == "" || lastName == "" || handle == "" {
		return ErrInvalidName
	}
	if n.people.Has(handle) {
		return &HandleError{Handles: []string{handle}, Err: ErrHandleTaken}
	}
	n.people.Put(handle, &Person{FirstName: firstName, LastName: lastName, Handle: handle})
	n.logger.Debug("added person", "handle", handle)
	return nil
}

// Person returns the person registered under handle.
func (n *Network) Person(handle string) (*Person, error) {
	p, ok := n.people.Lookup(handle)
	if !ok {
		return nil, &HandleError{Handles: []string{handle}, Err: ErrUnknownHandle}
	}
	return p, nil
}

func (n *Network) pair(handle1, handle2 string) (*Person, *Person, error) {
	p1, err := n.Person(handle1)
	if err != nil {
		return nil, nil, err
	}
	p2, err := n.Person(handle2)
	if err != nil {
		return nil, nil, err
	}
	return p1, p2, nil
}

// Friend creates a friendship between two existing, distinct people.
func (n *Network) Friend(handle1, handle2 string) error {
	p1, p2, err := n.pair(handle1, handle2)
	if err != nil {
		return err
	}
	if p1 == p2 {
		return &HandleError{Handles: []string{handle1}, Err: ErrSelfFriend}
	}
	if p1.isFriend(p2) {
		return &HandleError{Handles: []string{handle1, handle2}, Err: ErrAlreadyFriends}
	}

	p1.Friends = append(p1.Friends, p2)
	p2.Friends = append(p2.Friends, p1)
	n.friendships++
	return nil
}

// Unfriend dissolves an existing friendship.
func (n *Network) Unfriend(handle1, handle2 string) error {
	p1, p2, err := n.pair(handle1, handle2)
	if err != nil {
		return err
	}
	if !p1.isFriend(p2) {
		return &HandleError{Handles: []string{handle1, handle2}, Err: ErrNotFriends}
	}

	p1.removeFriend(p2)
	p2.removeFriend(p1)
	n.friendships--
	return nil
}

// Size returns the number of friends of handle.
func (n *Network) Size(handle string) (int, error) {
	p, err := n.Person(handle)
	if err != nil {
		return 0, err
	}
	return len(p.Friends), nil
}

// Stats returns the number of people and of friendships.
func (n *Network) Stats() (people, friendships int) {
	return n.people.Len(), n.friendships
}

// TableStats returns the counters of the underlying table.
func (n *Network) TableStats() table.Stats {
	return n.people.Stats()
}

// Dump writes the full table dump to w.
func (n *Network) Dump(w io.Writer) {
	n.people.Dump(w, true)
}

// Reset discards every person and friendship.
func (n *Network) Reset() {
	n.people.Destroy()
	n.people = n.newTable()
	n.friendships = 0
	n.logger.Debug("network reset")
}

// Close releases the network. It must not be used afterwards.
func (n *Network) Close() {
	n.people.Destroy()
	n.friendships = 0
}
