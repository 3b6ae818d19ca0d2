// Package ladder decodes raw readings of a resistor button ladder into
// button symbols.
//
// A ladder wires several push buttons to one ADC channel through a chain of
// resistors, so each button (and the idle state) produces its own voltage
// band. A Decoder holds an ordered table of inclusive bands; the first band
// containing a reading wins, which makes table order significant when bands
// overlap. Every decode that lands on a non-baseline band increments that
// band's counter, including repeated decodes while a button is held. Press
// counting on transitions is left to the caller (see package monitor).
package ladder
