package main

// walkVariableExprs visits every exprVariable leaf reachable from e. A
// call's own name is a function, not a variable, so only its arguments
// are descended into.
func walkVariableExprs(e *expression, fn func(*expression)) {
	if e == nil {
		return
	}
	switch e.kind {
	case exprVariable:
		fn(e)
	case exprCall:
		for _, a := range e.arguments {
			walkVariableExprs(a, fn)
		}
	case exprConcatenation:
		walkVariableExprs(e.lhs, fn)
		walkVariableExprs(e.rhs, fn)
	case exprGroup:
		walkVariableExprs(e.inner, fn)
	}
}

const (
	visitUnseen = iota
	visitInProgress
	visitDone
)

// resolveAssignments checks that every variable reference names a defined
// assignment and that the assignment dependency graph is acyclic,
// reporting the exact cycle on failure like the original implementation's
// assignment evaluator.
func resolveAssignments(jf *justfile) error {
	state := make(map[string]int, len(jf.assignments))
	var path []string

	var visit func(name string) *compilationError
	visit = func(name string) *compilationError {
		switch state[name] {
		case visitDone:
			return nil
		case visitInProgress:
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			circle := append(append([]string{}, path[start:]...), name)
			tok := jf.assignmentTokens[name]
			e := tok.errorf(errCircularVariableDependency)
			e.variable = name
			e.circle = circle
			e.source = jf.source()
			return e
		}

		state[name] = visitInProgress
		path = append(path, name)

		expr := jf.assignments[name]
		var refErr *compilationError
		walkVariableExprs(expr, func(ref *expression) {
			if refErr != nil {
				return
			}
			if _, exists := jf.assignments[ref.name]; !exists {
				e := ref.token.errorf(errUndefinedVariable)
				e.variable = ref.name
				e.source = jf.source()
				refErr = e
				return
			}
			if err := visit(ref.name); err != nil {
				refErr = err
			}
		})
		if refErr != nil {
			return refErr
		}

		path = path[:len(path)-1]
		state[name] = visitDone
		return nil
	}

	for _, name := range jf.assignmentOrder {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// resolveRecipes checks parameter/variable shadowing, that every
// dependency names a recipe requiring no arguments, that the recipe
// dependency graph is acyclic, and that every alias targets a real
// recipe without colliding with one of the same name.
func resolveRecipes(jf *justfile) error {
	for _, name := range jf.recipeOrder {
		r := jf.recipes[name]
		params := make(map[string]bool, len(r.parameters))
		for _, p := range r.parameters {
			if _, exists := jf.assignments[p.name]; exists {
				e := p.token.errorf(errParameterShadowsVariable)
				e.parameter = p.name
				e.source = jf.source()
				return e
			}
			params[p.name] = true
		}
		for _, line := range r.lines {
			for _, f := range line {
				if f.kind != fragmentExpression {
					continue
				}
				var refErr *compilationError
				walkVariableExprs(f.expression, func(ref *expression) {
					if refErr != nil {
						return
					}
					if params[ref.name] {
						return
					}
					if _, exists := jf.assignments[ref.name]; exists {
						return
					}
					e := ref.token.errorf(errUndefinedVariable)
					e.variable = ref.name
					e.source = jf.source()
					refErr = e
				})
				if refErr != nil {
					return refErr
				}
			}
		}
		for i, dep := range r.dependencies {
			target, exists := jf.recipes[dep]
			if !exists {
				e := r.dependencyTokens[i].errorf(errUnknownDependency)
				e.recipe = r.name
				e.dependency = dep
				e.source = jf.source()
				return e
			}
			if target.minArguments() > 0 {
				e := r.dependencyTokens[i].errorf(errDependencyHasParameters)
				e.recipe = r.name
				e.dependency = dep
				e.source = jf.source()
				return e
			}
		}
	}

	state := make(map[string]int, len(jf.recipes))
	var path []string

	var visit func(name string) *compilationError
	visit = func(name string) *compilationError {
		switch state[name] {
		case visitDone:
			return nil
		case visitInProgress:
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			circle := append(append([]string{}, path[start:]...), name)
			r := jf.recipes[name]
			tok := token{line: r.lineNumber}
			e := tok.errorf(errCircularRecipeDependency)
			e.recipe = name
			e.circle = circle
			e.source = jf.source()
			return e
		}

		state[name] = visitInProgress
		path = append(path, name)
		for _, dep := range jf.recipes[name].dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = visitDone
		return nil
	}

	for _, name := range jf.recipeOrder {
		if err := visit(name); err != nil {
			return err
		}
	}

	for _, name := range jf.aliasOrder {
		a := jf.aliases[name]
		if _, exists := jf.recipes[a.target]; !exists {
			tok := token{line: a.lineNumber}
			e := tok.errorf(errUnknownAliasTarget)
			e.alias = a.name
			e.dependency = a.target
			e.source = jf.source()
			return e
		}
		if _, exists := jf.recipes[a.name]; exists {
			tok := token{line: a.lineNumber}
			e := tok.errorf(errAliasShadowsRecipe)
			e.alias = a.name
			e.source = jf.source()
			return e
		}
	}

	return nil
}
