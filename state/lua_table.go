package state

import (
	"math"

	"github.com/lollipopkit/glua/utils"
)

// luaTable is the hybrid container: a 1-based array part for dense
// integer keys plus a hash part for everything else.
type luaTable struct {
	gcHeader
	arr       []any
	_map      map[any]any
	metatable *luaTable
	keys      map[any]any // used by nextKey()
	lastKey   any         // used by nextKey()
	changed   bool        // used by nextKey()
}

func (self *globalState) newTable(nArr, nRec int) *luaTable {
	t := &luaTable{}
	if nArr > 0 {
		t.arr = make([]any, 0, nArr)
	}
	if nRec > 0 {
		t._map = make(map[any]any, nRec)
	}
	self.addObj(t, sizeTable+sizeSlot*(nArr+nRec))
	return t
}

func (self *luaTable) hasMetafield(fieldName string) bool {
	return self.metatable != nil && self.metatable.get(fieldName) != nil
}

// _normalizeKey folds numeric keys with integral values to int64 so
// t[1] and t[1.0] are the same slot.
func _normalizeKey(key any) any {
	if f, ok := key.(float64); ok {
		if i, ok := utils.FloatToInteger(f); ok {
			return i
		}
	}
	return key
}

func (self *luaTable) get(key any) any {
	key = _normalizeKey(key)
	if idx, ok := key.(int64); ok {
		if idx >= 1 && idx <= int64(len(self.arr)) {
			return self.arr[idx-1]
		}
	}
	return self._map[key]
}

func (self *luaTable) put(key, val any) {
	if key == nil {
		panic("table index is nil!")
	}
	if f, ok := key.(float64); ok && math.IsNaN(f) {
		panic("table index is NaN!")
	}

	self.changed = true
	key = _normalizeKey(key)
	if idx, ok := key.(int64); ok && idx >= 1 {
		arrLen := int64(len(self.arr))
		if idx <= arrLen {
			self.arr[idx-1] = val
			if idx == arrLen && val == nil {
				self._shrinkArray()
			}
			return
		}
		if idx == arrLen+1 {
			delete(self._map, key)
			if val != nil {
				self.arr = append(self.arr, val)
				self._expandArray()
			}
			return
		}
	}
	if val != nil {
		if self._map == nil {
			self._map = make(map[any]any, 8)
		}
		self._map[key] = val
	} else {
		delete(self._map, key)
	}
}

// the array part never keeps trailing nils
func (self *luaTable) _shrinkArray() {
	for i := len(self.arr) - 1; i >= 0; i-- {
		if self.arr[i] == nil {
			self.arr = self.arr[0:i]
		} else {
			break
		}
	}
}

// migrate hash entries that became contiguous with the array part
func (self *luaTable) _expandArray() {
	for idx := int64(len(self.arr)) + 1; true; idx++ {
		if val, found := self._map[idx]; found {
			delete(self._map, idx)
			self.arr = append(self.arr, val)
		} else {
			break
		}
	}
}

// length returns a border: an index n with t[n] non-nil and t[n+1]
// nil. The array extent is the start point, extended through keys that
// migrated to the hash part.
func (self *luaTable) length() int {
	n := int64(len(self.arr))
	if self._map != nil {
		for {
			if v, found := self._map[n+1]; found && v != nil {
				n++
			} else {
				break
			}
		}
	}
	return int(n)
}

/* iteration */

func (self *luaTable) nextKey(key any) any {
	if self.keys == nil || (key == nil && self.changed) {
		self.initKeys()
		self.changed = false
	}
	return self.keys[_normalizeKey(key)]
}

func (self *luaTable) initKeys() {
	self.keys = make(map[any]any)
	var key any = nil
	for i := range self.arr {
		if self.arr[i] != nil {
			self.keys[key] = int64(i + 1)
			key = int64(i + 1)
		}
	}
	for k := range self._map {
		if self._map[k] != nil {
			self.keys[key] = k
			key = k
		}
	}
	self.lastKey = key
}
