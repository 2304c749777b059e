package physics

import (
	"fmt"
	"strings"
)

// LayerMask selects GameObject layers by bit.
type LayerMask uint32

const AllLayers LayerMask = ^LayerMask(0)

// Built in layers. GameObject.Layer holds one of these indices.
const (
	LayerDefault = iota
	LayerGround
	LayerMetal
	LayerPlayer
	LayerEnemy
	LayerDanger
)

var layerNames = map[string]int{
	"default": LayerDefault,
	"ground":  LayerGround,
	"metal":   LayerMetal,
	"player":  LayerPlayer,
	"enemy":   LayerEnemy,
	"danger":  LayerDanger,
}

// MaskOf builds a mask from layer indices.
func MaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << uint(l)
	}
	return m
}

func (m LayerMask) Contains(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// LayerByName resolves a layer name, case insensitively.
func LayerByName(name string) (int, error) {
	l, ok := layerNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("physics: unknown layer %q", name)
	}
	return l, nil
}

// MaskFromNames resolves every name into one mask.
func MaskFromNames(names []string) (LayerMask, error) {
	var m LayerMask
	for _, n := range names {
		l, err := LayerByName(n)
		if err != nil {
			return 0, err
		}
		m |= MaskOf(l)
	}
	return m, nil
}
