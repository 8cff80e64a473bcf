// Package converter turns legacy inventory XML, as sent by FusionInventory
// and older GLPI agents, into canonical inventory JSON.
//
// A conversion parses and prunes the XML (see package legacyxml), then runs
// every registered [Pass] up to the target version. A pass is an ordered list
// of named stages. The only pass today is "convertTo01" ([LastVersion]):
//
//  1. lowercase-keys and action derive the document header.
//  2. network-device reshapes content.device from network inventory and
//     network discovery tasks into network_device, network_ports and
//     network_components.
//  3. cast-types, normalize-lists and normalize-sublists fix value types
//     and force list sections to lists.
//  4. A series of fixups renames legacy fields and converts dates and
//     units.
//  5. drop-retired removes data the format no longer carries.
//
// Unparseable values are removed rather than guessed. Data under
// content.device the converter does not know about fails the conversion with
// [ErrUnhandledKey].
//
// # Observing
//
// [WithObserver] registers a callback run after every stage. [WithDebug]
// records a deep copy of each intermediate document, available from
// [Converter.Steps]. Without either, stages run with no bookkeeping.
package converter
