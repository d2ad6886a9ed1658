// Package workspace resolves the member packages of a workspace and loads
// the dependency sets of the root catalog and of every member manifest.
// Its Context type is the input of every check.
package workspace
