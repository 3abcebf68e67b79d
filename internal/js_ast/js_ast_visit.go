package js_ast

// Calls "visit" with a pointer to every child slot of a node in source order,
// including slots that are empty. Generic traversals, replacement and parent
// fixing are all built on this one switch.
func forEachSlot(data N, visit func(slot *Index)) {
	each := func(list []Index) {
		for i := range list {
			visit(&list[i])
		}
	}
	fn := func(fn *Fn) {
		visit(&fn.Name)
		each(fn.Args)
		each(fn.Body)
	}
	class := func(class *Class) {
		visit(&class.Name)
		visit(&class.Extends)
		each(class.Properties)
	}

	switch d := data.(type) {
	case *BObject:
		each(d.Properties)
	case *BProperty:
		visit(&d.Key)
		visit(&d.Value)
	case *BArray:
		each(d.Items)
	case *BDefault:
		visit(&d.Binding)
		visit(&d.Value)
	case *BRest:
		visit(&d.Binding)

	case *EArray:
		each(d.Items)
	case *EObject:
		each(d.Properties)
	case *Property:
		visit(&d.Key)
		visit(&d.Value)
	case *ESpread:
		visit(&d.Value)
	case *ECall:
		visit(&d.Target)
		each(d.Args)
	case *ENew:
		visit(&d.Target)
		each(d.Args)
	case *EDot:
		visit(&d.Target)
	case *EIndex:
		visit(&d.Target)
		visit(&d.Index)
	case *EUnary:
		visit(&d.Value)
	case *EBinary:
		visit(&d.Left)
		visit(&d.Right)
	case *ESequence:
		each(d.Exprs)
	case *EIf:
		visit(&d.Test)
		visit(&d.Yes)
		visit(&d.No)
	case *EFunction:
		fn(&d.Fn)
	case *EArrow:
		each(d.Args)
		each(d.Body)
		visit(&d.Expr)
	case *EClass:
		class(&d.Class)
	case *ETemplate:
		visit(&d.Tag)
		for i := range d.Parts {
			visit(&d.Parts[i].Value)
		}
	case *EAwait:
		visit(&d.Value)
	case *EYield:
		visit(&d.Value)
	case *EImportCall:
		visit(&d.Expr)
		visit(&d.Options)

	case *SBlock:
		each(d.Stmts)
	case *SExpr:
		visit(&d.Value)
	case *Decl:
		visit(&d.Binding)
		visit(&d.Value)
	case *SLocal:
		each(d.Decls)
	case *SFunction:
		fn(&d.Fn)
	case *SClass:
		class(&d.Class)
	case *SReturn:
		visit(&d.Value)
	case *SThrow:
		visit(&d.Value)
	case *SIf:
		visit(&d.Test)
		visit(&d.Yes)
		visit(&d.No)
	case *SFor:
		visit(&d.Init)
		visit(&d.Test)
		visit(&d.Update)
		visit(&d.Body)
	case *SForIn:
		visit(&d.Init)
		visit(&d.Value)
		visit(&d.Body)
	case *SWhile:
		visit(&d.Test)
		visit(&d.Body)
	case *SDoWhile:
		visit(&d.Body)
		visit(&d.Test)
	case *STry:
		visit(&d.Body)
		visit(&d.CatchParam)
		visit(&d.Catch)
		visit(&d.Finally)
	case *Case:
		visit(&d.Test)
		each(d.Body)
	case *SSwitch:
		visit(&d.Test)
		each(d.Cases)
	case *SLabel:
		visit(&d.Stmt)
	case *SWith:
		visit(&d.Value)
		visit(&d.Body)
	case *ImportItem:
		visit(&d.Binding)
	case *SImport:
		each(d.Items)
	case *ClauseItem:
		visit(&d.Name)
	case *SExportClause:
		each(d.Items)
	case *SExportFrom:
		each(d.Items)
	case *SExportDefault:
		visit(&d.Value)
	}
}

// Every list-shaped child slot of a node. Removing an element from one of
// these leaves valid syntax behind, which is not true of single slots.
func forEachList(data N, visit func(list *[]Index)) {
	switch d := data.(type) {
	case *BObject:
		visit(&d.Properties)
	case *BArray:
		visit(&d.Items)
	case *EArray:
		visit(&d.Items)
	case *EObject:
		visit(&d.Properties)
	case *ECall:
		visit(&d.Args)
	case *ENew:
		visit(&d.Args)
	case *ESequence:
		visit(&d.Exprs)
	case *EFunction:
		visit(&d.Fn.Args)
		visit(&d.Fn.Body)
	case *EArrow:
		visit(&d.Args)
		visit(&d.Body)
	case *EClass:
		visit(&d.Class.Properties)
	case *SBlock:
		visit(&d.Stmts)
	case *SLocal:
		visit(&d.Decls)
	case *Case:
		visit(&d.Body)
	case *SFunction:
		visit(&d.Fn.Args)
		visit(&d.Fn.Body)
	case *SClass:
		visit(&d.Class.Properties)
	case *SImport:
		visit(&d.Items)
	case *SExportClause:
		visit(&d.Items)
	case *SExportFrom:
		visit(&d.Items)
	}
}

// The non-empty children of a node in source order
func Children(data N) []Index {
	var children []Index
	forEachSlot(data, func(slot *Index) {
		if *slot != InvalidIndex {
			children = append(children, *slot)
		}
	})
	return children
}

// Returns the statement list a statement container holds, if it holds one
func StmtList(data N) *[]Index {
	switch d := data.(type) {
	case *SBlock:
		return &d.Stmts
	case *Case:
		return &d.Body
	case *SFunction:
		return &d.Fn.Body
	case *EFunction:
		return &d.Fn.Body
	case *EArrow:
		if d.Expr == InvalidIndex {
			return &d.Body
		}
	}
	return nil
}

// The list that directly holds "child", or nil when it sits in a single slot.
// Top-level statements are held by the program itself.
func (a *AST) ContainingList(child Index) *[]Index {
	parent := a.Nodes[child].Parent
	if parent == InvalidIndex {
		return &a.Stmts
	}
	var found *[]Index
	forEachList(a.Nodes[parent].Data, func(list *[]Index) {
		if found != nil {
			return
		}
		for _, item := range *list {
			if item == child {
				found = list
				return
			}
		}
	})
	return found
}

// Swaps "old" for "replacement" in its parent's slot. The old node keeps its
// data but no longer has a parent pointing at it.
func (a *AST) ReplaceChild(old Index, replacement Index) {
	parent := a.Nodes[old].Parent
	if parent == InvalidIndex {
		for i, stmt := range a.Stmts {
			if stmt == old {
				a.Stmts[i] = replacement
			}
		}
	} else {
		forEachSlot(a.Nodes[parent].Data, func(slot *Index) {
			if *slot == old {
				*slot = replacement
			}
		})
	}
	a.Nodes[replacement].Parent = parent
}

// Removes "child" from the list holding it and reports whether it was in one
func (a *AST) RemoveFromList(child Index) bool {
	list := a.ContainingList(child)
	if list == nil {
		return false
	}
	for i, item := range *list {
		if item == child {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Inserts statements into the list holding "anchor", directly after it when
// "after" is set and directly before it otherwise
func (a *AST) InsertNextTo(anchor Index, after bool, stmts ...Index) {
	list := a.ContainingList(anchor)
	if list == nil {
		panic("Internal error: statement is not in a statement list")
	}
	parent := a.Nodes[anchor].Parent
	for i, item := range *list {
		if item == anchor {
			at := i
			if after {
				at++
			}
			next := make([]Index, 0, len(*list)+len(stmts))
			next = append(next, (*list)[:at]...)
			next = append(next, stmts...)
			next = append(next, (*list)[at:]...)
			*list = next
			for _, stmt := range stmts {
				a.Nodes[stmt].Parent = parent
			}
			return
		}
	}
}

// Wraps a statement sitting in a single slot, like the branch of an "if",
// into a block so that statements can be inserted next to it
func (a *AST) EnsureInList(stmt Index) {
	if a.ContainingList(stmt) != nil {
		return
	}
	loc := a.Nodes[stmt].Loc
	block := a.Add(loc, &SBlock{})
	a.ReplaceChild(stmt, block)
	a.Nodes[block].Data.(*SBlock).Stmts = []Index{stmt}
	a.Nodes[stmt].Parent = block
}

// Calls "visit" on every node of a subtree in source order. Returning false
// skips the node's children.
func (a *AST) Walk(root Index, visit func(i Index) bool) {
	if root == InvalidIndex {
		return
	}
	if !visit(root) {
		return
	}
	for _, child := range Children(a.Nodes[root].Data) {
		a.Walk(child, visit)
	}
}

func (a *AST) MarkRemoved(root Index) {
	a.Walk(root, func(i Index) bool {
		a.Nodes[i].Removed = true
		return true
	})
}

// Whether a node is still reachable from the program body
func (a *AST) IsAttached(i Index) bool {
	for {
		node := &a.Nodes[i]
		if node.Removed {
			return false
		}
		if node.Parent == InvalidIndex {
			for _, stmt := range a.Stmts {
				if stmt == i {
					return true
				}
			}
			return false
		}
		found := false
		forEachSlot(a.Nodes[node.Parent].Data, func(slot *Index) {
			if *slot == i {
				found = true
			}
		})
		if !found {
			return false
		}
		i = node.Parent
	}
}

// The nearest enclosing node that is a statement, including "i" itself
func (a *AST) StmtParent(i Index) Index {
	for i != InvalidIndex {
		if IsStmt(a.Nodes[i].Data) {
			return i
		}
		i = a.Nodes[i].Parent
	}
	return InvalidIndex
}

// The top-level statement that contains "i"
func (a *AST) TopLevelStmt(i Index) Index {
	for i != InvalidIndex {
		if a.Nodes[i].Parent == InvalidIndex {
			return i
		}
		i = a.Nodes[i].Parent
	}
	return InvalidIndex
}

func (a *AST) TopLevelPosition(stmt Index) int {
	for i, s := range a.Stmts {
		if s == stmt {
			return i
		}
	}
	return -1
}
