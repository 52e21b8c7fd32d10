// Package shape checks that groups of related arrays in a store agree on their leading
// dimension.
//
// Each Group names a reference array and an ordered list of dependent arrays.  In a brim
// store these are the measurement channels (PSD, fitted amplitudes, offsets, shifts and
// widths for Stokes and anti-Stokes peaks) and the spatial map coordinates, all of which
// index the same set of spectra along their first axis.  Trailing dimensions differ between
// channels and are not compared.
package shape
