/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns at most one configuration singleton, stored under the
"_c:<package>" key. The configuration is loaded from the genesis file
("conf.<package>") and may later be patched by its owner through
UpdateConfigurationHandler.
*/
package gconf
