package compose

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Item is a single key-value pair of Map.
type Item struct {
	Key   string
	Value interface{}
}

// Map is an ordered mapping. Values are *Map, []interface{} or scalars.
// Insertion position is preserved on Set of existing keys.
type Map struct {
	items []Item
	index map[string]int
}

func NewMap(items ...Item) *Map {
	m := &Map{index: make(map[string]int, len(items))}
	for _, item := range items {
		m.Set(item.Key, item.Value)
	}
	return m
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.items))
	for _, item := range m.items {
		keys = append(keys, item.Key)
	}
	return keys
}

// Items returns copy of pairs in order.
func (m *Map) Items() []Item {
	if m == nil {
		return nil
	}
	return append([]Item(nil), m.items...)
}

func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.items[i].Value, true
}

func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Map returns nested mapping stored by key.
func (m *Map) Map(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	nested, ok := v.(*Map)
	return nested, ok && nested != nil
}

// Set replaces value in place if key exists, otherwise appends it.
func (m *Map) Set(key string, value interface{}) {
	if i, ok := m.index[key]; ok {
		m.items[i].Value = value
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.items)
	m.items = append(m.items, Item{Key: key, Value: value})
}

// Prepend puts key as the first item. Existing key is moved.
func (m *Map) Prepend(key string, value interface{}) {
	m.Delete(key)
	m.items = append([]Item{{Key: key, Value: value}}, m.items...)
	m.reindex()
}

// Delete removes key and reports whether it existed.
func (m *Map) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	m.reindex()
	return true
}

// Clone makes deep copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	cp := &Map{
		items: make([]Item, len(m.items)),
		index: make(map[string]int, len(m.items)),
	}
	for i, item := range m.items {
		cp.items[i] = Item{Key: item.Key, Value: cloneValue(item.Value)}
		cp.index[item.Key] = i
	}
	return cp
}

func (m *Map) reindex() {
	m.index = make(map[string]int, len(m.items))
	for i, item := range m.items {
		m.index[item.Key] = i
	}
}

func (m *Map) MarshalYAML() (interface{}, error) {
	return toYAML(m), nil
}

func (m *Map) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var slice yaml.MapSlice
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*m = *fromMapSlice(slice)
	return nil
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *Map:
		return v.Clone()
	case []interface{}:
		cp := make([]interface{}, len(v))
		for i, item := range v {
			cp[i] = cloneValue(item)
		}
		return cp
	default:
		return v
	}
}

func fromMapSlice(slice yaml.MapSlice) *Map {
	m := &Map{
		items: make([]Item, 0, len(slice)),
		index: make(map[string]int, len(slice)),
	}
	for _, item := range slice {
		m.Set(keyString(item.Key), fromYAML(item.Value))
	}
	return m
}

func fromYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case yaml.MapSlice:
		return fromMapSlice(v)
	case map[interface{}]interface{}:
		// only produced when decoding outside of MapSlice; order is already lost
		slice := make(yaml.MapSlice, 0, len(v))
		for k, item := range v {
			slice = append(slice, yaml.MapItem{Key: k, Value: item})
		}
		return fromMapSlice(slice)
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = fromYAML(item)
		}
		return list
	default:
		return v
	}
}

func toYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case *Map:
		if v == nil {
			return yaml.MapSlice{}
		}
		slice := make(yaml.MapSlice, 0, len(v.items))
		for _, item := range v.items {
			slice = append(slice, yaml.MapItem{Key: item.Key, Value: toYAML(item.Value)})
		}
		return slice
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = toYAML(item)
		}
		return list
	default:
		return v
	}
}

func keyString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
