// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlerr defines the single error type returned by every stage of
reading and writing YAML.

Each Error names the stage that failed (Kind) and, where one exists, the
Position of the offending text. Stages fail on the first problem; no partial
results accompany an Error.
*/
package yamlerr
