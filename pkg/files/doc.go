// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files enumerates and loads the inputs given to yamlcodec commands:
local files and directories, HTTP URLs and standard input ("-").

Each File has a Type derived from its extension, which decides how
commands such as "convert" decode it.
*/
package files
