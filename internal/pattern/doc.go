// Package pattern enumerates the room patterns of the "6+1" protocol.
//
// A pattern assigns one room to each of seven 24-hour slots: six slots hold
// normal rooms and one holds a cellar. The diversity level k (3 to 6) is the
// number of distinct normal rooms among the six room slots; rooms repeat when
// k < 6.
//
// Generation composes three small generators:
//
//	Tuples           ordered k-tuples of distinct rooms, R!/(R-k)! of them
//	Layouts          which 6-k tuple positions are doubled (C(k, 6-k) choices)
//	InsertionPoints  where the cellar goes, never between two copies of a room
//
// so a level produces R!/(R-k)! × C(k, 6-k) × (k+1) schemes per cellar:
//
//	k=6:  1 layout  × 7 positions
//	k=5:  5 layouts × 6 positions
//	k=4:  6 layouts × 5 positions
//	k=3:  1 layout  × 4 positions
//
// Every (room assignment, doubled rooms, cellar, cellar position) combination
// is produced exactly once. Generation is deterministic for a fixed input order.
package pattern
