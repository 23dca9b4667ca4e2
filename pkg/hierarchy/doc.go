// Package hierarchy turns a nested name/children dataset into an indexed tree.
//
// Input documents look like
//
//	{"name": "Sales", "children": [
//	    {"name": "Wii", "children": [
//	        {"name": "Wii Sports", "category": "Wii", "value": "82.53"}
//	    ]}
//	]}
//
// [Build] assigns every node a dotted id ("Sales.Wii.Wii Sports"), sums leaf
// values up the tree and records each node's height. [Tree.Sort] then orders
// siblings so that layout sees groups first and large items before small ones.
//
// Nodes live in a flat arena ([Tree.Nodes]) and refer to parents and children
// by index. The root is always index 0 and every parent precedes its children.
package hierarchy
