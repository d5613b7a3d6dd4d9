package event

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/spaolacci/murmur3"
)

// Tag is the stable 32-bit identifier of an event type.
type Tag uint32

// String returns the tag as eight hex digits.
func (t Tag) String() string {
	return fmt.Sprintf("%08x", uint32(t))
}

// Named lets an event type choose the name its tag is derived from.
// The method is called on the zero value, so it must not depend on fields.
type Named interface {
	EventName() string
}

// HashName computes the tag for a type name: MurmurHash3 x86-32 with seed 0.
func HashName(name string) Tag {
	return Tag(murmur3.Sum32WithSeed([]byte(name), 0))
}

// typeInfo is the registered identity of one event type.
type typeInfo struct {
	tag  Tag
	name string
}

// typeRegistry maps Go types to tags for the lifetime of the process.
// Lookups are lock-free after the first registration of a type.
type typeRegistry struct {
	byType sync.Map // reflect.Type -> typeInfo

	mu    sync.Mutex
	byTag map[Tag]string
}

var types = &typeRegistry{byTag: make(map[Tag]string)}

// TagOf returns the tag of event type T.
// It panics with a *TagCollisionError if T's name hashes to a tag already
// owned by a different name.
func TagOf[T any]() Tag {
	return infoOf[T]().tag
}

// NameOf returns the name T's tag is derived from.
func NameOf[T any]() string {
	return infoOf[T]().name
}

func infoOf[T any]() typeInfo {
	rt := reflect.TypeFor[T]()
	if v, ok := types.byType.Load(rt); ok {
		return v.(typeInfo)
	}
	var zero T
	return types.register(rt, typeName(rt, any(zero)))
}

func (r *typeRegistry) register(rt reflect.Type, name string) typeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.byType.Load(rt); ok {
		return v.(typeInfo)
	}

	info := typeInfo{
		tag:  HashName(name),
		name: name,
	}
	if existing, ok := r.byTag[info.tag]; ok && existing != name {
		panic(&TagCollisionError{Tag: info.tag, Existing: existing, Name: name})
	}
	r.byTag[info.tag] = name
	r.byType.Store(rt, info)
	return info
}

// nameOf returns the name registered for tag, or the tag in hex when no
// type owns it.
func (r *typeRegistry) nameOf(tag Tag) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.byTag[tag]; ok {
		return name
	}
	return tag.String()
}

// typeName resolves the fully-qualified name of an event type.
func typeName(rt reflect.Type, zero any) string {
	if n, ok := zero.(Named); ok {
		return n.EventName()
	}
	if rt.Name() != "" && rt.PkgPath() != "" {
		return rt.PkgPath() + "." + rt.Name()
	}
	return rt.String()
}
