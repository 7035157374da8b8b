// Package format renders a collection as a Lua workshop file.
//
// The output is a short comment header followed by one
// resource.AddWorkshop line per collection item, in page order.
package format
