package main

import "proxysql-manager/cmd"

func main() {
	cmd.Execute()
}
