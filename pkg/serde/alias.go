// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)

	// expansions are not counted beyond this
	maxExpandedCount = 1 << 40
)

// allowedAliasRatio is the share of a decoded value that may come from
// alias expansion. Small documents may alias freely; large ones may not.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= aliasRatioRangeLow:
		return 0.99
	case decodeCount >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-aliasRatioRangeLow)/aliasRatioRange)
	}
}

// CheckAliasExpansion fails when walking node with every alias expanded
// would visit disproportionally more nodes than the graph holds.
func CheckAliasExpansion(node *yamlmeta.Node) error {
	distinct := yamlmeta.CountNodes(node)
	expanded := ExpandedCount(node)

	aliased := expanded - distinct
	if aliased > 100 && expanded > 1000 &&
		float64(aliased)/float64(expanded) > allowedAliasRatio(expanded) {
		return yamlerr.New(yamlerr.Resolution, node.GetPosition(),
			"document contains excessive aliasing (%d nodes expand to more than %d)", distinct, expanded)
	}
	return nil
}

// ExpandedCount returns the number of nodes visited when every alias is
// expanded, saturating at a large bound.
func ExpandedCount(node *yamlmeta.Node) int {
	return expandedCount(node, map[*yamlmeta.Node]int{})
}

func expandedCount(node *yamlmeta.Node, memo map[*yamlmeta.Node]int) int {
	if count, found := memo[node]; found {
		return count
	}
	count := 1
	for _, item := range node.Items {
		count = saturatingAdd(count, expandedCount(item, memo))
	}
	for _, pair := range node.Pairs {
		count = saturatingAdd(count, expandedCount(pair.Key, memo))
		count = saturatingAdd(count, expandedCount(pair.Value, memo))
	}
	memo[node] = count
	return count
}

func saturatingAdd(a, b int) int {
	if a+b > maxExpandedCount {
		return maxExpandedCount
	}
	return a + b
}
