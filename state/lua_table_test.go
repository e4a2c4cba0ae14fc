package state

import "testing"

func newTestTable() (*globalState, *luaTable) {
	gs := newGlobalState()
	return gs, gs.newTable(0, 0)
}

func TestTableArrayPart(t *testing.T) {
	_, tbl := newTestTable()
	tbl.put(int64(1), "a")
	tbl.put(int64(2), "b")
	tbl.put(int64(3), "c")
	if len(tbl.arr) != 3 {
		t.Errorf("dense keys should live in the array part, len=%d", len(tbl.arr))
	}
	if tbl.get(int64(2)) != "b" {
		t.Errorf("get(2) = %v", tbl.get(int64(2)))
	}
	// float keys with integral values are the same slot
	if tbl.get(float64(2)) != "b" {
		t.Errorf("get(2.0) = %v", tbl.get(float64(2)))
	}
}

func TestTableHashMigration(t *testing.T) {
	_, tbl := newTestTable()
	tbl.put(int64(2), "b") // goes to hash: not contiguous yet
	tbl.put(int64(3), "c")
	if len(tbl.arr) != 0 {
		t.Fatalf("sparse keys should start in the hash part")
	}
	tbl.put(int64(1), "a") // bridges the gap: 2 and 3 migrate
	if len(tbl.arr) != 3 {
		t.Errorf("hash keys should migrate to the array part, len=%d", len(tbl.arr))
	}
}

func TestTableShrinkOnTrailingNil(t *testing.T) {
	_, tbl := newTestTable()
	for i := int64(1); i <= 5; i++ {
		tbl.put(i, i)
	}
	tbl.put(int64(5), nil)
	tbl.put(int64(4), nil)
	if len(tbl.arr) != 3 {
		t.Errorf("trailing nils should shrink the array, len=%d", len(tbl.arr))
	}
}

// #t must be a border: t[n] ~= nil and t[n+1] == nil (or n == 0)
func assertBorder(t *testing.T, tbl *luaTable) {
	t.Helper()
	n := int64(tbl.length())
	if n == 0 {
		if tbl.get(int64(1)) != nil {
			t.Errorf("length 0 but t[1] = %v", tbl.get(int64(1)))
		}
		return
	}
	if tbl.get(n) == nil {
		t.Errorf("length %d but t[%d] is nil", n, n)
	}
	if tbl.get(n+1) != nil {
		t.Errorf("length %d but t[%d] = %v", n, n+1, tbl.get(n+1))
	}
}

func TestTableBorders(t *testing.T) {
	_, tbl := newTestTable()
	assertBorder(t, tbl)

	for i := int64(1); i <= 10; i++ {
		tbl.put(i, i)
	}
	assertBorder(t, tbl)

	tbl.put(int64(4), nil) // hole in the middle
	assertBorder(t, tbl)

	_, sparse := newTestTable()
	sparse.put(int64(1), "a")
	sparse.put(int64(100), "z")
	assertBorder(t, sparse)
}

func TestTableIteration(t *testing.T) {
	_, tbl := newTestTable()
	tbl.put(int64(1), "a")
	tbl.put(int64(2), "b")
	tbl.put("k", "v")

	seen := map[any]any{}
	var key any
	for {
		key = tbl.nextKey(key)
		if key == nil {
			break
		}
		seen[key] = tbl.get(key)
	}
	if len(seen) != 3 {
		t.Errorf("iterated %d entries, want 3: %v", len(seen), seen)
	}
	if seen[int64(1)] != "a" || seen["k"] != "v" {
		t.Errorf("wrong entries: %v", seen)
	}
}
