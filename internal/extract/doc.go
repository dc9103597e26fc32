// Package extract reads the links and text back out of stored reference markup.
package extract
