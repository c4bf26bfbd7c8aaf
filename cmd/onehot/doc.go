// Command onehot normalizes a free-text, multi-valued survey column and
// writes it as a one-hot table keyed by a canonical phrase vocabulary.
//
//	onehot encode --records group_employment.csv --vocabulary phrases.csv
//	onehot vocab --records group_employment.csv --output phrases.csv
//	onehot normalize "Employed, full-time;Student"
//	onehot config init
package main
