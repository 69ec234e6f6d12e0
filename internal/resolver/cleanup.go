package resolver

import (
	"slices"
	"strings"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/unit"
)

// buildBatchIndexes is the fifteenth pass: batch-wide indexing aids that
// must see every semantic result. Mixins get their sorted, de-duplicated
// super-invoked name lists, and each library's export scope is frozen into
// its element view.
func (c *batchContext) buildBatchIndexes() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			decl, ok := d.(*unit.Mixin)
			if !ok || len(decl.SuperInvoked) == 0 {
				continue
			}
			names := slices.Clone(decl.SuperInvoked)
			slices.SortFunc(names, strings.Compare)
			names = slices.Compact(names)
			b.SetSuperInvokedNames(c.elementFor(d).(*element.Mixin), names)
		}
	}

	for _, lib := range c.Units {
		scope := lib.Scope()
		names := slices.Clone(scope.Names())
		byName := make(map[string]element.Element, len(names))
		for _, name := range names {
			ref, _ := scope.Get(name)
			if elem := c.elementFor(ref.Decl); elem != nil {
				byName[name] = elem
			}
		}
		b.SetExportScope(c.ElemLib[lib], names, byName)
	}
}

// detachSyntax is the sixteenth pass: every element drops its back-reference
// to the originating syntax, and the handle table goes with it. Nothing
// after this point may read syntax.
func (c *batchContext) detachSyntax() {
	for _, lib := range c.arena {
		c.Builder.DetachSyntax(c.ElemLib[lib])
	}
	c.DeclElem = nil
}

// mergeAugmentations is the seventeenth and final pass: macro-generated
// definition sources collected during the definitions phase are merged into
// their libraries. Running after detachment guarantees the merge happens
// purely at the element-model level.
func (c *batchContext) mergeAugmentations() {
	for _, pa := range c.pendingAugs {
		c.Builder.AddAugmentation(c.ElemLib[pa.lib], pa.aug)
	}
	c.pendingAugs = nil
}
