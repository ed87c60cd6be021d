package mlogic

// ApplyESubst returns p[q/x], the capture-avoiding element substitution
// (spec.md §4.2). It returns an error only when a binder's capture check
// fails (Exists/Mu crossing), which is a fatal, non-recoverable condition
// for the proof under construction.
func ApplyESubst(p *Pattern, x ID, q *Pattern) (*Pattern, error) {
	if IsRedundantESubst(p, x, q) {
		return p, nil
	}
	switch p.tag {
	case TagBot, TagSVar, TagSymbol:
		return p, nil
	case TagEVar:
		if p.id == x {
			return q, nil
		}
		return p, nil
	case TagImplies:
		l, err := ApplyESubst(p.left, x, q)
		if err != nil {
			return nil, err
		}
		r, err := ApplyESubst(p.right, x, q)
		if err != nil {
			return nil, err
		}
		return NewImplies(l, r), nil
	case TagApp:
		l, err := ApplyESubst(p.left, x, q)
		if err != nil {
			return nil, err
		}
		r, err := ApplyESubst(p.right, x, q)
		if err != nil {
			return nil, err
		}
		return NewApp(l, r), nil
	case TagExists:
		if p.id == x {
			return p, nil // binder shadows x
		}
		if !q.EFresh(p.id) {
			return nil, NewSideConditionError("apply_esubst", "capture: Exists binder %d is not fresh in the plug", p.id)
		}
		body, err := ApplyESubst(p.body, x, q)
		if err != nil {
			return nil, err
		}
		return NewExists(p.id, body), nil
	case TagMu:
		if !q.SFresh(p.id) {
			return nil, NewSideConditionError("apply_esubst", "capture: Mu binder %d is not fresh in the plug", p.id)
		}
		body, err := ApplyESubst(p.body, x, q)
		if err != nil {
			return nil, err
		}
		return NewMu(p.id, body), nil
	case TagMetaVar, TagESubst, TagSSubst:
		// The substitution remains pending because we cannot normalise
		// under an unknown shape.
		return NewESubst(p, x, q)
	default:
		return p, nil
	}
}

// ApplySSubst returns p[q/X], the capture-avoiding set substitution. Dual
// of ApplyESubst with SVar/Mu swapped for EVar/Exists.
func ApplySSubst(p *Pattern, x ID, q *Pattern) (*Pattern, error) {
	if IsRedundantSSubst(p, x, q) {
		return p, nil
	}
	switch p.tag {
	case TagBot, TagEVar, TagSymbol:
		return p, nil
	case TagSVar:
		if p.id == x {
			return q, nil
		}
		return p, nil
	case TagImplies:
		l, err := ApplySSubst(p.left, x, q)
		if err != nil {
			return nil, err
		}
		r, err := ApplySSubst(p.right, x, q)
		if err != nil {
			return nil, err
		}
		return NewImplies(l, r), nil
	case TagApp:
		l, err := ApplySSubst(p.left, x, q)
		if err != nil {
			return nil, err
		}
		r, err := ApplySSubst(p.right, x, q)
		if err != nil {
			return nil, err
		}
		return NewApp(l, r), nil
	case TagMu:
		if p.id == x {
			return p, nil // binder shadows X
		}
		if !q.SFresh(p.id) {
			return nil, NewSideConditionError("apply_ssubst", "capture: Mu binder %d is not fresh in the plug", p.id)
		}
		body, err := ApplySSubst(p.body, x, q)
		if err != nil {
			return nil, err
		}
		return NewMu(p.id, body), nil
	case TagExists:
		if !q.EFresh(p.id) {
			return nil, NewSideConditionError("apply_ssubst", "capture: Exists binder %d is not fresh in the plug", p.id)
		}
		body, err := ApplySSubst(p.body, x, q)
		if err != nil {
			return nil, err
		}
		return NewExists(p.id, body), nil
	case TagMetaVar, TagESubst, TagSSubst:
		return NewSSubst(p, x, q)
	default:
		return p, nil
	}
}

// Instantiate simultaneously replaces each MetaVar(vars[i]) in p by
// plugs[i], after checking that plugs[i] satisfies every freshness,
// polarity, and hole constraint the meta-variable carries (spec.md §4.2).
// vars and plugs must have the same length.
//
// The identity optimisation ("if no child changed, return the original
// pattern") is a performance hint only — it preserves structural sharing,
// not any reference-identity contract a caller may rely on (spec.md §9).
func Instantiate(p *Pattern, vars []ID, plugs []*Pattern) (*Pattern, error) {
	switch p.tag {
	case TagBot, TagEVar, TagSVar, TagSymbol:
		return p, nil
	case TagMetaVar:
		for i, v := range vars {
			if v != p.id {
				continue
			}
			plug := plugs[i]
			c := p.meta
			for _, x := range c.eFresh {
				if !plug.EFresh(x) {
					return nil, NewSideConditionError("instantiate", "plug for meta-variable %d fails e_fresh(%d)", p.id, x)
				}
			}
			for _, x := range c.sFresh {
				if !plug.SFresh(x) {
					return nil, NewSideConditionError("instantiate", "plug for meta-variable %d fails s_fresh(%d)", p.id, x)
				}
			}
			for _, x := range c.positive {
				if !plug.Positive(x) {
					return nil, NewSideConditionError("instantiate", "plug for meta-variable %d fails positive(%d)", p.id, x)
				}
			}
			for _, x := range c.negative {
				if !plug.Negative(x) {
					return nil, NewSideConditionError("instantiate", "plug for meta-variable %d fails negative(%d)", p.id, x)
				}
			}
			for _, x := range c.appCtxHoles {
				if !plug.AppCtxHole(x) {
					return nil, NewSideConditionError("instantiate", "plug for meta-variable %d fails app_ctx_hole(%d)", p.id, x)
				}
			}
			return plug, nil
		}
		return p, nil
	case TagImplies:
		l, err := Instantiate(p.left, vars, plugs)
		if err != nil {
			return nil, err
		}
		r, err := Instantiate(p.right, vars, plugs)
		if err != nil {
			return nil, err
		}
		if l == p.left && r == p.right {
			return p, nil
		}
		return NewImplies(l, r), nil
	case TagApp:
		l, err := Instantiate(p.left, vars, plugs)
		if err != nil {
			return nil, err
		}
		r, err := Instantiate(p.right, vars, plugs)
		if err != nil {
			return nil, err
		}
		if l == p.left && r == p.right {
			return p, nil
		}
		return NewApp(l, r), nil
	case TagExists:
		body, err := Instantiate(p.body, vars, plugs)
		if err != nil {
			return nil, err
		}
		if body == p.body {
			return p, nil
		}
		return NewExists(p.id, body), nil
	case TagMu:
		body, err := Instantiate(p.body, vars, plugs)
		if err != nil {
			return nil, err
		}
		if body == p.body {
			return p, nil
		}
		return NewMu(p.id, body), nil
	case TagESubst:
		host, err := Instantiate(p.body, vars, plugs)
		if err != nil {
			return nil, err
		}
		plug, err := Instantiate(p.right, vars, plugs)
		if err != nil {
			return nil, err
		}
		if host == p.body && plug == p.right {
			return p, nil
		}
		return ApplyESubst(host, p.id, plug)
	case TagSSubst:
		host, err := Instantiate(p.body, vars, plugs)
		if err != nil {
			return nil, err
		}
		plug, err := Instantiate(p.right, vars, plugs)
		if err != nil {
			return nil, err
		}
		if host == p.body && plug == p.right {
			return p, nil
		}
		return ApplySSubst(host, p.id, plug)
	default:
		return p, nil
	}
}
