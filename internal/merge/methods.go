package merge

import (
	"errors"
	"fmt"

	"smartbeaver/internal/syntax"

	"go.uber.org/zap"
)

// AppendAt splices source into target's body starting at line. A line at or
// past the end of the body appends; negative lines count as 0. Statements
// are copied, never shared with source.
func AppendAt(target *syntax.Method, source []syntax.Stmt, line int) {
	add := syntax.CloneStmts(source)
	if line >= len(target.Body) {
		target.Body = append(target.Body, add...)
		return
	}
	if line < 0 {
		line = 0
	}
	body := make([]syntax.Stmt, 0, len(target.Body)+len(add))
	body = append(body, target.Body[:line]...)
	body = append(body, add...)
	body = append(body, target.Body[line:]...)
	target.Body = body
}

// Replace swaps target's body for a copy of source's. The signature and
// attributes of target are kept.
func Replace(target, source *syntax.Method) {
	target.Body = syntax.CloneStmts(source.Body)
	if target.Body == nil {
		target.Body = []syntax.Stmt{}
	}
}

// mergeImpl merges every method of source into target and returns how many
// methods of target were added or changed.
func (p *pass) mergeImpl(target, source *syntax.ImplBlock) int {
	changed := 0
	for _, m := range source.Methods {
		strategy, err := ResolveStrategy(m.Attrs)
		if err != nil {
			kind := ErrMalformedAttribute
			if errors.Is(err, ErrAmbiguousMergeDirective) {
				kind = ErrAmbiguousMergeDirective
			}
			p.diag(kind, fmt.Sprintf("%s::%s: %v", source.Identity(), m.Name, err))
		}

		ti := target.FindMethodByName(m.Name)
		if ti < 0 {
			if strategy.Kind != StrategyNone {
				p.notice(fmt.Sprintf("%s of %s::%s has no target method, dropped", strategy, target.Identity(), m.Name))
				continue
			}
			c := m.Clone()
			c.Attrs = stripMarkers(c.Attrs)
			target.Methods = append(target.Methods, c)
			p.log.Debug("copied method", zap.String("impl", target.Identity()), zap.String("method", m.Name))
			changed++
			continue
		}

		tm := target.Methods[ti]
		switch strategy.Kind {
		case StrategyNone:
			p.notice(fmt.Sprintf("%s::%s exists in target and has no merge directive, left unchanged", target.Identity(), m.Name))
			continue
		case StrategyAppend:
			AppendAt(tm, m.Body, strategy.Line)
		case StrategyReplace:
			Replace(tm, m)
		}
		p.log.Debug("merged method",
			zap.String("impl", target.Identity()),
			zap.String("method", m.Name),
			zap.Stringer("strategy", strategy))
		changed++
	}
	return changed
}

// mergeImplSet merges every impl block of ext into base. A block base lacks
// is built from an empty copy of the extension header and only inserted
// when at least one method landed in it.
func (p *pass) mergeImplSet(base, ext *syntax.ModDecl) {
	for _, ei := range syntax.ImplBlocks(ext.Decls) {
		eb := ext.Decls[ei].(*syntax.ImplBlock)
		identity := eb.Identity()

		if bi := syntax.FindImplByIdentity(base.Decls, identity); bi >= 0 {
			n := p.mergeImpl(base.Decls[bi].(*syntax.ImplBlock), eb)
			p.log.Debug("merged impl", zap.String("impl", identity), zap.Int("changed", n))
			continue
		}

		fresh := eb.CloneEmpty()
		fresh.Members = append([]string(nil), eb.Members...)
		if n := p.mergeImpl(fresh, eb); n == 0 {
			p.notice(fmt.Sprintf("impl %s contributed no methods, dropped", identity))
			continue
		}
		base.Decls = append(base.Decls, fresh)
		p.log.Debug("copied impl", zap.String("impl", identity), zap.Int("methods", len(fresh.Methods)))
	}
}
