// SPDX-License-Identifier: MPL-2.0

// Package loader turns registry entries into command trees. Built-in trees
// are compiled in and keyed by namespace; linked namespaces are loaded from
// their module file by extension: JavaScript through jsmodule, script
// manifests through vshell.
package loader
