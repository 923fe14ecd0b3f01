// Package units maps the service's small integer unit codes to unit labels.
//
// Seven quantities are selectable (temperature, pressure, density, energy,
// velocity, viscosity, surface tension). Each code is a 1-based index into a
// fixed ordered label list; the resolved Labels carry both the human form used
// in output headers and the URL token form sent to the service. Two derived
// labels (molar volume, molar entropy) follow the density and energy codes and
// are only used for header annotation.
package units
