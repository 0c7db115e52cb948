// Package engine holds the synchronous 5e rules: modifiers, hit points,
// armor class, leveling, spell slots, conditions, initiative and dice.
// Nothing here performs I/O; orchestrators load a record, apply these
// functions and persist the result.
package engine
