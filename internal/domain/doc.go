// Package domain decodes BUFKIT sounding files into merged soundings.
//
// # Data Source
//
// BUFKIT files are produced by the NWS model postprocessors (GFS, NAM, RAP,
// HRRR and others) for a fixed list of stations. Each file holds one model run
// for one station: an upper-air section with one record per forecast hour and
// a surface section with one row per forecast hour. The upstream collector
// publishes each file, unmodified, as one Kafka message keyed by file name.
//
// # File Layout
//
// Upper-air section:
//
//	SNPARM = PRES;TMPC;TMWC;DWPC;THTE;DRCT;SKNT;OMEG;CFRL;HGHT
//	STNPRM = SHOW;LIFT;SWET;KINX;LCLP;PWAT;TOTL;CAPE;LCLT;CINS;EQLV;LFCT;BRCH
//
//	STID = KMSO STNM = 727730 TIME = 170401/0100
//	SLAT = 46.87 SLON = -114.16 SELV = 1335.0
//	STIM = 1
//
//	SHOW = 8.12 LIFT = 8.00 ...
//
//	PRES TMPC TMWC DWPC THTE DRCT SKNT OMEG
//	CFRL HGHT
//	867.20 8.04 4.71 1.19 307.17 288.43 2.45 0.00
//	0.00 1353.07
//	...
//
// Each record has three parts separated by blank lines: station info,
// indexes, and the profile table. Profile rows wrap; values belong to columns
// by position. The profile vocabulary is closed and an unknown tag fails the
// record.
//
// Surface section, starting at the literal "STN YYMMDD/HHMM":
//
//	STN YYMMDD/HHMM PMSL PRES SKTC STC1 SNFL WTNS
//	P01M C01M STC2 LCLD MCLD HCLD SNRA UWND
//	...
//	727730 170401/0000 1020.40 909.10 10.54 278.70 -9999.00 0.00
//	...
//
// Rows are exactly one token per header tag; newlines carry no meaning.
// Unknown tags are ignored, but their values must still be numbers.
//
// Time format:
//
//	YYMMDD/HHMM, UTC, years offset from 2000: "170401/0100" = 2017-04-01T01:00Z.
//
// Unknown values:
//
//	-9999 (or -9999.00) is written verbatim for missing data and compared
//	exactly. Decoders turn it into a nil pointer immediately.
//
// # Error Policy
//
// A malformed upper-air record fails the whole file: iteration stops and the
// error is returned from [SoundingIterator.Err]. A malformed surface row is
// skipped and counted, and a truncated final row ends the surface section.
// [Validate] is strict about both.
//
// # Merge
//
// Upper-air records and surface rows are paired by exact valid time. Records
// on either side without an exact match are dropped.
//
// # ID Generation
//
// Sounding IDs are UUIDv5 over station number, valid time and source file
// name. Reprocessing the same file yields the same IDs, which keeps sink
// upserts idempotent. See [generateID].
package domain
