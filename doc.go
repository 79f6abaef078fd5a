// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bridge is the core of a background service that renders a
// rectangular window of a text-mode screen onto a refreshable braille
// display, routes keystrokes typed on the display back to the host, and
// serves remote clients over the protocol implemented in package protocol.
//
// This package defines the data model and external interfaces (BrailleDriver,
// ScreenSource) that the rest of the module's subsystems build on:
// texttable and keytable compile declarative table files, dispatch runs the
// command pipeline, update drives the render loop, protocol serves remote
// clients, and clipboard holds the shared buffer.
package bridge
