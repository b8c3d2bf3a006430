// Copyright 2018 Tomas Machalek <tomas.machalek@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

var helpTexts = []string{
	`Process a single access log file (lines in the "address,body,agent" form),
search for brute-force attempts, scanners and requests from known attack tools
and write a report to the configured output directory. A proper JSON configuration
file must be specified (either a local path or an http(s) URL):

{
    "inputPath": "/var/log/nginx/access.csv",
    "outputDir": "/var/opt/logsentry/report",
    "topN": 10,
    "logPath": "/var/log/logsentry.log",
    "logLevel": "info",
    "timeZone": "Europe/Prague",
    "geoIpDbPath": "/path/to/GeoLite2-City.mmdb",
    "scriptPath": "/path/to/rule.lua",
    "detection": {
        "bruteForceThreshold": 10,
        "scannerThreshold": 15,
        "toolSignatures": ["nikto", "sqlmap", "nmap"],
        "ipOutlierCoeff": 1.5,
        "ipOutlierMinFreq": 50,
        "blocklistIp": ["192.0.2.1"],
        "clusteringDbScan": {
            "minDensity": 10,
            "epsilon": 2.0
        }
    },
    "emailNotification": {
        "sender": "logsentry@example.com",
        "recipients": ["admin@example.com"]
    }
}

Use the -input option to override "inputPath" and -dry-run to print the report
to stdout without writing any files or sending notifications.
`,
	`Print version information.`,
}
