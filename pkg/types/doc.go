// Package types defines the goal tree model, the Store and Table interfaces,
// and the standard errors shared by the tinyj storage and question layers.
//
// Entities (Goal, Task, Habit) are addressed by a GoalID that places them in
// a tree through float positions. Dependency edges are lists of GoalID.
// Streak and score state hang off the entities but are derived or mutated by
// dedicated collaborators, never by the question engine.
package types
