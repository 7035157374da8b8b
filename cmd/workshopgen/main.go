// Package main provides the entry point for the workshopgen CLI.
//
// workshopgen downloads a Steam Workshop collection page and writes a Lua
// file with one resource.AddWorkshop line per collection item, ready to be
// loaded by a Garry's Mod server.
//
// Usage:
//
//	workshopgen -i 1182709177 -o garrysmod/lua/autorun/server
//	workshopgen history 1182709177 --diff
//
// See --help for all available options.
package main

func main() {
	Execute()
}
